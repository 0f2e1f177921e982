package repositories

import (
	"lapak/internal/models"
)

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	Create(review *models.Review) error
	// GetByOrderItem returns nil, nil when the order item has no review.
	GetByOrderItem(orderItemID string) (*models.Review, error)
	ListByProduct(productID string) ([]models.Review, error)
	ListByCustomer(customerID string) ([]models.Review, error)
}
