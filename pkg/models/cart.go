package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem holds one (user, product) pair awaiting checkout. Re-adding a
// product merges into the existing row by incrementing Quantity.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Product   Product   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	AddedAt   time.Time `gorm:"autoCreateTime" json:"added_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// TotalPrice is Quantity times the live product price.
func (c *CartItem) TotalPrice() decimal.Decimal {
	return c.Product.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}
