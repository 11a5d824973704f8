package models

import "time"

// OrderChecklist is the staff task list for an order, created when the order
// is assigned. Reassignment reuses the existing checklist; completed work is
// never discarded.
type OrderChecklist struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"uniqueIndex;not null" json:"order_id"`
	Items     []ChecklistItem `gorm:"foreignKey:ChecklistID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ChecklistItem is one task copied from a product's checklist template.
// Optional items never count toward the completion percentage.
type ChecklistItem struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ChecklistID    uint       `gorm:"index;not null" json:"checklist_id"`
	TemplateItemID *uint      `json:"template_item_id,omitempty"`
	Description    string     `gorm:"size:500;not null" json:"description"`
	Completed      bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CompletedByID  *uint      `json:"completed_by_id,omitempty"`
	CompletedBy    *User      `json:"completed_by,omitempty"`
	OrderIndex     int        `gorm:"not null" json:"order_index"`
	IsOptional     bool       `gorm:"not null;default:false" json:"is_optional"`
}
