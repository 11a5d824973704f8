// Package catalog resolves polymorphic product references. A reference is a
// (type, id) pair; Resolve dispatches on the explicit ProductType
// discriminant to the matching table.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/electioncart/electioncart/internal/models"
)

var ErrUnknownProduct = errors.New("unknown product")

// ProductInfo is the resolved view of a product reference: enough to price a
// cart item and name an order line.
type ProductInfo struct {
	Type     models.ProductType `json:"type"`
	ID       uint               `json:"id"`
	Name     string             `json:"name"`
	Price    decimal.Decimal    `json:"price"`
	IsActive bool               `json:"is_active"`
}

// Resolve looks up the product a (type, id) pair points at. Returns
// ErrUnknownProduct when the discriminant is invalid or no row exists.
func Resolve(db *gorm.DB, ptype models.ProductType, id uint) (*ProductInfo, error) {
	switch ptype {
	case models.ProductPackage:
		var pkg models.Package
		if err := db.First(&pkg, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUnknownProduct
			}
			return nil, fmt.Errorf("resolve package %d: %w", id, err)
		}
		return &ProductInfo{Type: ptype, ID: pkg.ID, Name: pkg.Name, Price: pkg.Price, IsActive: pkg.IsActive}, nil
	case models.ProductCampaign:
		var c models.Campaign
		if err := db.First(&c, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUnknownProduct
			}
			return nil, fmt.Errorf("resolve campaign %d: %w", id, err)
		}
		return &ProductInfo{Type: ptype, ID: c.ID, Name: c.Name, Price: c.Price, IsActive: c.IsActive}, nil
	default:
		return nil, ErrUnknownProduct
	}
}

// TemplateItemsForOrder collects the checklist template items of every
// distinct product referenced by the order's items, sorted by template order
// index.
func TemplateItemsForOrder(db *gorm.DB, order *models.Order) ([]models.ChecklistTemplateItem, error) {
	type ref struct {
		ptype models.ProductType
		id    uint
	}
	seen := make(map[ref]bool)
	var all []models.ChecklistTemplateItem

	for _, item := range order.Items {
		r := ref{item.ProductType, item.ProductID}
		if seen[r] {
			continue
		}
		seen[r] = true

		var items []models.ChecklistTemplateItem
		err := db.Where("product_type = ? AND product_id = ?", r.ptype, r.id).
			Order("order_index").
			Find(&items).Error
		if err != nil {
			return nil, fmt.Errorf("load template items for %s %d: %w", r.ptype, r.id, err)
		}
		all = append(all, items...)
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].OrderIndex < all[j].OrderIndex })
	return all, nil
}

// FieldDefinitionsFor returns the dynamic resource field definitions of a
// product, in display order.
func FieldDefinitionsFor(db *gorm.DB, ptype models.ProductType, id uint) ([]models.ResourceFieldDefinition, error) {
	var defs []models.ResourceFieldDefinition
	err := db.Where("product_type = ? AND product_id = ?", ptype, id).
		Order("order_index").
		Find(&defs).Error
	if err != nil {
		return nil, fmt.Errorf("load field definitions for %s %d: %w", ptype, id, err)
	}
	return defs, nil
}
