package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductType discriminates the product variant an order item or cart item
// points at. References are resolved through catalog.Resolve, never through
// reflection.
type ProductType string

const (
	ProductPackage  ProductType = "package"
	ProductCampaign ProductType = "campaign"
)

// IsValid reports whether t names a known product variant.
func (t ProductType) IsValid() bool {
	return t == ProductPackage || t == ProductCampaign
}

type Package struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:200;not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Description string          `gorm:"type:text" json:"description"`
	IsActive    bool            `gorm:"not null" json:"is_active"`
	Items       []PackageItem   `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type PackageItem struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	PackageID uint   `gorm:"index;not null" json:"package_id"`
	Name      string `gorm:"size:200;not null" json:"name"`
	Quantity  int    `gorm:"not null;default:1" json:"quantity"`
}

type Campaign struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:200;not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Unit        string          `gorm:"size:50" json:"unit"`
	Description string          `gorm:"type:text" json:"description"`
	IsActive    bool            `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ChecklistTemplateItem is a product-owned template task. At assignment time
// each template item is copied into a ChecklistItem under the order's
// checklist.
type ChecklistTemplateItem struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	ProductType ProductType `gorm:"size:20;index:idx_template_product;not null" json:"product_type"`
	ProductID   uint        `gorm:"index:idx_template_product;not null" json:"product_id"`
	Name        string      `gorm:"size:500;not null" json:"name"`
	OrderIndex  int         `gorm:"not null" json:"order_index"`
	IsOptional  bool        `gorm:"not null;default:false" json:"is_optional"`
}

// Resource field types for dynamic submissions.
const (
	FieldText     = "text"
	FieldNumber   = "number"
	FieldImage    = "image"
	FieldDocument = "document"
)

// ResourceFieldDefinition describes one field a customer must (or may)
// provide when uploading resources for a product that uses dynamic
// submissions. Validation constraints depend on the field type: length
// bounds for text, value range for numbers, size and extension limits for
// files.
type ResourceFieldDefinition struct {
	ID                uint        `gorm:"primaryKey" json:"id"`
	ProductType       ProductType `gorm:"size:20;index:idx_field_product;not null" json:"product_type"`
	ProductID         uint        `gorm:"index:idx_field_product;not null" json:"product_id"`
	Name              string      `gorm:"size:100;not null" json:"name"`
	Label             string      `gorm:"size:200;not null" json:"label"`
	FieldType         string      `gorm:"size:10;not null" json:"field_type"`
	Required          bool        `gorm:"not null" json:"required"`
	MaxFileSizeMB     int         `gorm:"not null;default:5" json:"max_file_size_mb"`
	MinLength         *int        `json:"min_length,omitempty"`
	MaxLength         *int        `json:"max_length,omitempty"`
	MinValue          *float64    `json:"min_value,omitempty"`
	MaxValue          *float64    `json:"max_value,omitempty"`
	AllowedExtensions string      `gorm:"size:200" json:"allowed_extensions,omitempty"` // comma-separated, e.g. ".jpg,.png"
	OrderIndex        int         `gorm:"not null" json:"order_index"`
}
