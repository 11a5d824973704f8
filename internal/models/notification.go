package models

import "time"

// Notification types.
const (
	NotificationNewOrder       = "new_order"
	NotificationOrderAssigned  = "order_assigned"
	NotificationProgressUpdate = "progress_update"
	NotificationOrderCompleted = "order_completed"
)

// Notification is a fire-and-forget message to a staff or admin user.
// Delivery is best-effort: creating one never blocks the business
// transaction that triggered it.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Type      string    `gorm:"size:20;not null" json:"type"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	OrderID   *uint     `gorm:"index" json:"order_id,omitempty"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
