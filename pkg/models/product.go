package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	CategoryID  uint             `gorm:"not null;index" json:"category_id"`
	Category    Category         `gorm:"foreignKey:CategoryID" json:"category"`
	Name        string           `gorm:"type:varchar(200);not null" json:"name"`
	Slug        string           `gorm:"type:varchar(200);uniqueIndex;not null" json:"slug"`
	Description string           `gorm:"type:text" json:"description"`
	Price       decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"price"`
	OldPrice    *decimal.Decimal `gorm:"type:decimal(10,2)" json:"old_price,omitempty"`
	Stock       int              `gorm:"not null;default:0" json:"stock"`
	Available   bool             `gorm:"not null;default:true" json:"available"`
	Image       string           `gorm:"type:varchar(255)" json:"image"`
	Image2      string           `gorm:"type:varchar(255)" json:"image2,omitempty"`
	Image3      string           `gorm:"type:varchar(255)" json:"image3,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) InStock() bool {
	return p.Stock > 0
}

// DiscountPercentage is the markdown from OldPrice to Price, truncated to
// a whole percent. Zero when no old price is recorded.
func (p *Product) DiscountPercentage() int {
	if p.OldPrice == nil || p.OldPrice.IsZero() {
		return 0
	}
	diff := p.OldPrice.Sub(p.Price)
	return int(diff.Div(*p.OldPrice).Mul(decimal.NewFromInt(100)).IntPart())
}
