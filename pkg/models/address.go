package models

import (
	"time"
)

// Address is a shipping address in a user's address book. At most one
// address per user carries IsDefault; the repository re-establishes that
// on every write.
type Address struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	FullName    string    `gorm:"type:varchar(100);not null" json:"full_name"`
	PhoneNumber string    `gorm:"type:varchar(15);not null" json:"phone_number"`
	Line1       string    `gorm:"type:varchar(200);not null" json:"address_line1"`
	Line2       string    `gorm:"type:varchar(200)" json:"address_line2"`
	City        string    `gorm:"type:varchar(100);not null" json:"city"`
	State       string    `gorm:"type:varchar(100);not null" json:"state"`
	PostalCode  string    `gorm:"type:varchar(10);not null" json:"postal_code"`
	Country     string    `gorm:"type:varchar(100);not null;default:'Nigeria'" json:"country"`
	IsDefault   bool      `gorm:"not null;default:false" json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Address) TableName() string {
	return "addresses"
}
