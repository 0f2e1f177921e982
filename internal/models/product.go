package models

import (
	"strings"
	"time"
	"unicode"
)

// Category groups products for browsing.
type Category struct {
	ID   string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name string `json:"name" gorm:"type:varchar(255)" validate:"required,max=255"`
}

// Product represents a catalog item. UnitPrice is in minor currency units.
// Inventory is the available stock and may only be decremented inside a
// committed order-placement transaction (or restored by cancellation);
// Limit is the low-stock alert threshold.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title       string    `json:"title" gorm:"type:varchar(255)" validate:"required,min=3,max=255"`
	SKU         string    `json:"sku" gorm:"type:varchar(255)" validate:"omitempty,max=255"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;type:varchar(255)"`
	CategoryID  string    `json:"category_id" gorm:"type:varchar(36)"`
	Category    Category  `json:"category" gorm:"constraint:OnDelete:CASCADE" validate:"-"`
	Description string    `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	UnitPrice   int64     `json:"unit_price" validate:"gte=0"`
	Inventory   int       `json:"inventory" validate:"gte=0"`
	Limit       int       `json:"limit" validate:"gte=0"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FeaturedProduct pins a product onto the storefront highlight strip.
type FeaturedProduct struct {
	ID        string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID string  `json:"product_id" gorm:"uniqueIndex;type:varchar(36)"`
	Product   Product `json:"product" gorm:"constraint:OnDelete:CASCADE"`
}

// EnsureSlug fills Slug from Title when it was not provided.
func (p *Product) EnsureSlug() {
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
}

// Slugify lowercases s and collapses every run of non-alphanumeric
// characters into a single hyphen.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteRune('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
