package repositories

import (
	"lapak/internal/models"
)

// ProductSearch describes the catalog listing query.
type ProductSearch struct {
	Query      string // matches title or description, case-insensitive
	CategoryID string
	Sort       string // "newest" (default) or "oldest"
	PriceSort  string // "", "cheap" or "expensive"; overrides Sort
	ActiveOnly bool
	Page       int // 1-based; 0 means first page
	PageSize   int // 0 means no limit
}

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	Search(opts ProductSearch) ([]models.Product, int64, error)
	Featured(limit int) ([]models.FeaturedProduct, error)
	GetByID(id string) (*models.Product, error)
	// GetByIDForUpdate reads the product under a row lock so a concurrent
	// reservation cannot interleave. Only meaningful inside a
	// Store.Transaction.
	GetByIDForUpdate(id string) (*models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error

	Categories() ([]models.Category, error)
	CreateCategory(category *models.Category) error
}
