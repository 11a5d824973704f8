package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/electioncart/electioncart/internal/status"
)

// NewOrderNumber generates a human-readable order number with the format
// EC-YYYYMMDD-XXXXXXXX.
func NewOrderNumber() string {
	date := time.Now().Format("20060102")
	unique := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("EC-%s-%s", date, unique)
}

// Order is the aggregate root of the fulfillment workflow. It exclusively
// owns its items and, once assigned, its checklist; deleting an order
// cascades to both.
type Order struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	UserID             uint            `gorm:"index;not null" json:"user_id"`
	User               *User           `json:"user,omitempty"`
	OrderNumber        string          `gorm:"size:50;uniqueIndex;not null" json:"order_number"`
	TotalAmount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status             status.Status   `gorm:"size:30;not null;default:pending_payment" json:"status"`
	GatewayOrderID     string          `gorm:"size:100" json:"gateway_order_id,omitempty"`
	GatewayPaymentID   *string         `gorm:"size:100" json:"gateway_payment_id,omitempty"`
	GatewaySignature   *string         `gorm:"size:255" json:"-"`
	PaymentCompletedAt *time.Time      `json:"payment_completed_at,omitempty"`
	AssignedToID       *uint           `gorm:"index" json:"assigned_to_id,omitempty"`
	AssignedTo         *User           `json:"assigned_to,omitempty"`
	Items              []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Checklist          *OrderChecklist `gorm:"constraint:OnDelete:CASCADE" json:"checklist,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// TotalItems returns the number of line items. Items must be preloaded.
func (o *Order) TotalItems() int {
	return len(o.Items)
}

// AllResourcesUploaded reports whether every order item has a resource
// submission. Items must be preloaded. Vacuously true for an empty order.
func (o *Order) AllResourcesUploaded() bool {
	for _, item := range o.Items {
		if !item.ResourcesUploaded {
			return false
		}
	}
	return true
}

// ResourceUploadProgress returns the share of items with resources uploaded
// as a whole percentage. Items must be preloaded.
func (o *Order) ResourceUploadProgress() int {
	if len(o.Items) == 0 {
		return 100
	}
	uploaded := 0
	for _, item := range o.Items {
		if item.ResourcesUploaded {
			uploaded++
		}
	}
	return uploaded * 100 / len(o.Items)
}

// PendingResourceItems returns the items still waiting for a submission.
func (o *Order) PendingResourceItems() []OrderItem {
	var pending []OrderItem
	for _, item := range o.Items {
		if !item.ResourcesUploaded {
			pending = append(pending, item)
		}
	}
	return pending
}

// OrderItem is one purchased line. ProductName and Price are snapshots taken
// at checkout so later catalog edits do not rewrite order history.
type OrderItem struct {
	ID                uint                 `gorm:"primaryKey" json:"id"`
	OrderID           uint                 `gorm:"index;not null" json:"order_id"`
	ProductType       ProductType          `gorm:"size:20;not null" json:"product_type"`
	ProductID         uint                 `gorm:"not null" json:"product_id"`
	ProductName       string               `gorm:"size:200;not null" json:"product_name"`
	Quantity          int                  `gorm:"not null;default:1" json:"quantity"`
	Price             decimal.Decimal      `gorm:"type:decimal(10,2);not null" json:"price"`
	ResourcesUploaded bool                 `gorm:"not null;default:false" json:"resources_uploaded"`
	Resource          *OrderResource       `gorm:"constraint:OnDelete:CASCADE" json:"resource,omitempty"`
	FieldValues       []ResourceFieldValue `gorm:"constraint:OnDelete:CASCADE" json:"field_values,omitempty"`
}

// Subtotal returns price times quantity.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderResource is the fixed-shape resource submission for an order item.
// Created once, immutable thereafter; resubmission is rejected.
type OrderResource struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	OrderItemID     uint      `gorm:"uniqueIndex;not null" json:"order_item_id"`
	CandidatePhoto  string    `gorm:"size:500;not null" json:"candidate_photo"`
	PartyLogo       string    `gorm:"size:500;not null" json:"party_logo"`
	CampaignSlogan  string    `gorm:"type:text;not null" json:"campaign_slogan"`
	PreferredDate   time.Time `gorm:"type:date;not null" json:"preferred_date"`
	WhatsappNumber  string    `gorm:"size:15;not null" json:"whatsapp_number"`
	AdditionalNotes string    `gorm:"type:text" json:"additional_notes,omitempty"`
	UploadedAt      time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

// ResourceFieldValue is one value of a dynamic resource submission, keyed
// against the product's field definition.
type ResourceFieldValue struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	OrderItemID       uint      `gorm:"index;not null" json:"order_item_id"`
	FieldDefinitionID uint      `gorm:"not null" json:"field_definition_id"`
	FieldName         string    `gorm:"size:100;not null" json:"field_name"`
	FieldType         string    `gorm:"size:10;not null" json:"field_type"`
	TextValue         string    `gorm:"type:text" json:"text_value,omitempty"`
	NumberValue       *float64  `json:"number_value,omitempty"`
	FilePath          string    `gorm:"size:500" json:"file_path,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}
