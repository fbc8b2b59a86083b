package models

import (
	"time"
)

// CategoryNames is the fixed set of storefront departments. Category.Name
// must be one of the keys; the value is the customer-facing display name.
var CategoryNames = map[string]string{
	"computing":             "Computing",
	"electronics":           "Electronics",
	"garden_outdoors":       "Garden & Outdoors",
	"phones_tablets":        "Phones & Tablets",
	"home_office":           "Home & Office",
	"automobile":            "Automobile",
	"industrial_scientific": "Industrial & Scientific",
}

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Slug        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `gorm:"type:varchar(255)" json:"image"`
	CreatedAt   time.Time `json:"created_at"`

	Products []Product `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

// DisplayName maps the enumerated name to its customer-facing label.
func (c *Category) DisplayName() string {
	if label, ok := CategoryNames[c.Name]; ok {
		return label
	}
	return c.Name
}

// ValidCategoryName reports whether name belongs to the fixed department set.
func ValidCategoryName(name string) bool {
	_, ok := CategoryNames[name]
	return ok
}
