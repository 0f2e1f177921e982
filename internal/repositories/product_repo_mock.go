package repositories

import (
	"sort"
	"strings"

	"lapak/internal/models"

	"github.com/google/uuid"
)

// mockProductRepo is the in-memory implementation of ProductRepository.
type mockProductRepo struct {
	s *MockStore
}

// Search retrieves products matching opts from memory.
func (r *mockProductRepo) Search(opts ProductSearch) ([]models.Product, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []models.Product
	for _, p := range r.s.products {
		if opts.ActiveOnly && !p.IsActive {
			continue
		}
		if opts.CategoryID != "" && p.CategoryID != opts.CategoryID {
			continue
		}
		if opts.Query != "" {
			q := strings.ToLower(opts.Query)
			if !strings.Contains(strings.ToLower(p.Title), q) &&
				!strings.Contains(strings.ToLower(p.Description), q) {
				continue
			}
		}
		matched = append(matched, p)
	}

	switch opts.PriceSort {
	case "cheap":
		sort.Slice(matched, func(i, j int) bool { return matched[i].UnitPrice < matched[j].UnitPrice })
	case "expensive":
		sort.Slice(matched, func(i, j int) bool { return matched[i].UnitPrice > matched[j].UnitPrice })
	default:
		if opts.Sort == "oldest" {
			sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.Before(matched[j].CreatedAt) })
		} else {
			sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
		}
	}

	total := int64(len(matched))
	if opts.PageSize > 0 {
		page := opts.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * opts.PageSize
		if start > len(matched) {
			start = len(matched)
		}
		end := start + opts.PageSize
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	return matched, total, nil
}

// Featured returns up to limit featured products.
func (r *mockProductRepo) Featured(limit int) ([]models.FeaturedProduct, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var featured []models.FeaturedProduct
	for _, f := range r.s.featured {
		if p, ok := r.s.products[f.ProductID]; ok {
			f.Product = p
		}
		featured = append(featured, f)
		if len(featured) == limit {
			break
		}
	}
	return featured, nil
}

// GetByID returns a product by its ID.
func (r *mockProductRepo) GetByID(id string) (*models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	product, ok := r.s.products[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	return &product, nil
}

// GetByIDForUpdate returns a product by its ID. Mock transactions are fully
// serialized, so no extra locking is needed here.
func (r *mockProductRepo) GetByIDForUpdate(id string) (*models.Product, error) {
	return r.GetByID(id)
}

// GetBySlug returns a product by its slug.
func (r *mockProductRepo) GetBySlug(slug string) (*models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.products {
		if p.Slug == slug {
			product := p
			return &product, nil
		}
	}
	return nil, models.ErrProductNotFound
}

// Create adds a new product.
func (r *mockProductRepo) Create(product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.EnsureSlug()
	r.s.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *mockProductRepo) Update(product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[product.ID]; !ok {
		return models.ErrProductNotFound
	}
	product.EnsureSlug()
	r.s.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *mockProductRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return models.ErrProductNotFound
	}
	delete(r.s.products, id)
	return nil
}

// Categories returns all categories sorted by name.
func (r *mockProductRepo) Categories() ([]models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	categories := make([]models.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

// CreateCategory adds a new category.
func (r *mockProductRepo) CreateCategory(category *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	r.s.categories[category.ID] = *category
	return nil
}

// AddFeatured marks a product as featured. Seeding helper for tests and
// local development.
func (s *MockStore) AddFeatured(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	s.featured[id] = models.FeaturedProduct{ID: id, ProductID: productID}
}
