package services

import (
	"lapak/internal/models"
	"lapak/internal/repositories"
)

// ReviewService handles customer reviews of purchased items. A review can be
// written once per order item, by its buyer, and only after the owning order
// has completed.
type ReviewService struct {
	store repositories.Store
}

// NewReviewService creates a new ReviewService.
func NewReviewService(store repositories.Store) *ReviewService {
	return &ReviewService{
		store: store,
	}
}

// Create writes a review for an order item the customer purchased.
func (s *ReviewService) Create(customerID, orderItemID string, rating int, comment string) (*models.Review, error) {
	item, err := s.store.Orders().GetItem(orderItemID)
	if err != nil {
		return nil, err
	}
	order, err := s.store.Orders().GetByID(item.OrderID)
	if err != nil {
		return nil, err
	}
	// Other customers' items look like they do not exist.
	if order.CustomerID != customerID {
		return nil, models.ErrOrderItemNotFound
	}
	if order.Status != models.StatusCompleted {
		return nil, models.ErrReviewNotEligible
	}

	existing, err := s.store.Reviews().GetByOrderItem(orderItemID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.ErrDuplicateReview
	}

	review := &models.Review{
		OrderItemID: orderItemID,
		Rating:      rating,
		Comment:     comment,
	}
	if err := s.store.Reviews().Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListByProduct retrieves the reviews written about a product.
func (s *ReviewService) ListByProduct(productID string) ([]models.Review, error) {
	return s.store.Reviews().ListByProduct(productID)
}

// ListMine retrieves the reviews written by a customer.
func (s *ReviewService) ListMine(customerID string) ([]models.Review, error) {
	return s.store.Reviews().ListByCustomer(customerID)
}
