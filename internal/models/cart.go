package models

import "time"

// Cart holds the items a customer intends to order. One cart per user;
// checkout converts it into an Order and empties it.
type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Items     []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	CartID      uint        `gorm:"uniqueIndex:idx_cart_product;not null" json:"cart_id"`
	ProductType ProductType `gorm:"size:20;uniqueIndex:idx_cart_product;not null" json:"product_type"`
	ProductID   uint        `gorm:"uniqueIndex:idx_cart_product;not null" json:"product_id"`
	Quantity    int         `gorm:"not null;default:1" json:"quantity"`
	AddedAt     time.Time   `gorm:"autoCreateTime" json:"added_at"`
}
