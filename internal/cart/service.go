// Package cart manages each customer's shopping cart. Carts are created
// lazily on first access and emptied at checkout.
package cart

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/electioncart/electioncart/internal/catalog"
	"github.com/electioncart/electioncart/internal/models"
)

var (
	ErrItemNotFound    = errors.New("cart item not found")
	ErrProductInactive = errors.New("product is not available")
	ErrBadQuantity     = errors.New("quantity must be at least 1")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Line is a cart item joined with current catalog data.
type Line struct {
	Item     models.CartItem `json:"item"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// View is the cart as the frontend renders it.
type View struct {
	CartID     uint            `json:"cart_id"`
	Lines      []Line          `json:"lines"`
	TotalItems int             `json:"total_items"`
	Total      decimal.Decimal `json:"total"`
}

func (s *Service) getOrCreate(userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("added_at, id") }).
		Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		err = s.db.Create(&cart).Error
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return &cart, nil
}

// Get returns the user's cart priced against the current catalog.
func (s *Service) Get(userID uint) (*View, error) {
	cart, err := s.getOrCreate(userID)
	if err != nil {
		return nil, err
	}

	view := View{CartID: cart.ID, Total: decimal.Zero, Lines: []Line{}}
	for _, item := range cart.Items {
		product, err := catalog.Resolve(s.db, item.ProductType, item.ProductID)
		if err != nil {
			// Product removed from the catalog since it was added; skip it.
			continue
		}
		line := Line{
			Item:     item,
			Name:     product.Name,
			Price:    product.Price,
			Subtotal: product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
		}
		view.Lines = append(view.Lines, line)
		view.TotalItems += item.Quantity
		view.Total = view.Total.Add(line.Subtotal)
	}
	return &view, nil
}

// AddItem puts a product in the cart. Adding a product already in the cart
// replaces its quantity.
func (s *Service) AddItem(userID uint, ptype models.ProductType, productID uint, quantity int) (*View, error) {
	if quantity < 1 {
		return nil, ErrBadQuantity
	}
	product, err := catalog.Resolve(s.db, ptype, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductInactive
	}

	cart, err := s.getOrCreate(userID)
	if err != nil {
		return nil, err
	}

	item := models.CartItem{
		CartID:      cart.ID,
		ProductType: ptype,
		ProductID:   productID,
		Quantity:    quantity,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_id"}, {Name: "product_type"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{"quantity": quantity}),
	}).Create(&item).Error
	if err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}
	return s.Get(userID)
}

// UpdateQuantity changes the quantity of an item in the user's cart.
func (s *Service) UpdateQuantity(userID, itemID uint, quantity int) (*View, error) {
	if quantity < 1 {
		return nil, ErrBadQuantity
	}
	cart, err := s.getOrCreate(userID)
	if err != nil {
		return nil, err
	}
	res := s.db.Model(&models.CartItem{}).
		Where("id = ? AND cart_id = ?", itemID, cart.ID).
		Update("quantity", quantity)
	if res.Error != nil {
		return nil, fmt.Errorf("update cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrItemNotFound
	}
	return s.Get(userID)
}

// RemoveItem deletes an item from the user's cart.
func (s *Service) RemoveItem(userID, itemID uint) (*View, error) {
	cart, err := s.getOrCreate(userID)
	if err != nil {
		return nil, err
	}
	res := s.db.Where("id = ? AND cart_id = ?", itemID, cart.ID).Delete(&models.CartItem{})
	if res.Error != nil {
		return nil, fmt.Errorf("remove cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrItemNotFound
	}
	return s.Get(userID)
}

// Clear empties the user's cart.
func (s *Service) Clear(userID uint) error {
	cart, err := s.getOrCreate(userID)
	if err != nil {
		return err
	}
	if err := s.db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
