package models

import "time"

const (
	RoleUser  = "user"
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// User is an account resolved by the auth middleware. Token issuance lives
// with the external identity provider; this table only carries what the
// fulfillment workflow needs.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	PhoneNumber string    `gorm:"size:15;uniqueIndex;not null" json:"phone_number"`
	Role        string    `gorm:"size:10;not null;default:user" json:"role"`
	APIToken    string    `gorm:"size:64;uniqueIndex" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsStaffOrAdmin reports whether the user may be assigned orders.
func (u *User) IsStaffOrAdmin() bool {
	return u.Role == RoleStaff || u.Role == RoleAdmin
}
