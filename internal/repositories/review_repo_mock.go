package repositories

import (
	"sort"
	"time"

	"lapak/internal/models"

	"github.com/google/uuid"
)

// mockReviewRepo is the in-memory implementation of ReviewRepository.
type mockReviewRepo struct {
	s *MockStore
}

// Create adds a new review.
func (r *mockReviewRepo) Create(review *models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}
	for _, existing := range r.s.reviews {
		if existing.OrderItemID == review.OrderItemID {
			return models.ErrDuplicateReview
		}
	}
	stored := *review
	stored.OrderItem = models.OrderItem{}
	r.s.reviews[review.ID] = stored
	return nil
}

// GetByOrderItem returns the review for an order item, or nil when absent.
func (r *mockReviewRepo) GetByOrderItem(orderItemID string) (*models.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, review := range r.s.reviews {
		if review.OrderItemID == orderItemID {
			found := review
			return &found, nil
		}
	}
	return nil, nil
}

// ListByProduct returns every review written about a product, newest first.
func (r *mockReviewRepo) ListByProduct(productID string) ([]models.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var reviews []models.Review
	for _, review := range r.s.reviews {
		item, ok := r.s.orderItems[review.OrderItemID]
		if ok && item.ProductID == productID {
			reviews = append(reviews, review)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].CreatedAt.After(reviews[j].CreatedAt) })
	return reviews, nil
}

// ListByCustomer returns every review written by a customer, newest first.
func (r *mockReviewRepo) ListByCustomer(customerID string) ([]models.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var reviews []models.Review
	for _, review := range r.s.reviews {
		item, ok := r.s.orderItems[review.OrderItemID]
		if !ok {
			continue
		}
		order, ok := r.s.orders[item.OrderID]
		if ok && order.CustomerID == customerID {
			reviews = append(reviews, review)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].CreatedAt.After(reviews[j].CreatedAt) })
	return reviews, nil
}
