package services

import (
	"lapak/internal/models"
	"lapak/internal/repositories"
)

// ProductService handles catalog browsing and staff-side catalog management.
type ProductService struct {
	store repositories.Store
}

// NewProductService creates a new ProductService.
func NewProductService(store repositories.Store) *ProductService {
	return &ProductService{
		store: store,
	}
}

// Search retrieves a page of products matching opts plus the total count.
func (s *ProductService) Search(opts repositories.ProductSearch) ([]models.Product, int64, error) {
	return s.store.Products().Search(opts)
}

// Featured retrieves the storefront highlight strip, at most 8 products.
func (s *ProductService) Featured() ([]models.FeaturedProduct, error) {
	return s.store.Products().Featured(8)
}

// GetBySlug retrieves a single product together with its rating summary.
func (s *ProductService) GetBySlug(slug string) (*models.Product, models.RatingSummary, error) {
	product, err := s.store.Products().GetBySlug(slug)
	if err != nil {
		return nil, models.RatingSummary{}, err
	}
	reviews, err := s.store.Reviews().ListByProduct(product.ID)
	if err != nil {
		return nil, models.RatingSummary{}, err
	}
	return product, models.SummarizeRatings(reviews), nil
}

// Create creates a new product.
func (s *ProductService) Create(product *models.Product) error {
	return s.store.Products().Create(product)
}

// Update updates an existing product.
func (s *ProductService) Update(product *models.Product) error {
	return s.store.Products().Update(product)
}

// Delete deletes a product unless order items still reference it.
func (s *ProductService) Delete(id string) error {
	referenced, err := s.store.Orders().CountItemsForProduct(id)
	if err != nil {
		return err
	}
	if referenced > 0 {
		return models.ErrProductInUse
	}
	return s.store.Products().Delete(id)
}

// Categories retrieves all categories.
func (s *ProductService) Categories() ([]models.Category, error) {
	return s.store.Products().Categories()
}

// CreateCategory creates a new category.
func (s *ProductService) CreateCategory(category *models.Category) error {
	return s.store.Products().CreateCategory(category)
}
