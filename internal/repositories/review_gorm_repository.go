package repositories

import (
	"errors"
	"fmt"

	"lapak/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{
		db: db,
	}
}

// Create persists a review. The unique index on order_item_id backs up the
// one-review-per-item rule against concurrent submissions.
func (r *GORMReviewRepository) Create(review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if err := r.db.Omit("OrderItem").Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// GetByOrderItem retrieves the review for an order item, or nil when the
// item has not been reviewed.
func (r *GORMReviewRepository) GetByOrderItem(orderItemID string) (*models.Review, error) {
	var review models.Review
	err := r.db.First(&review, "order_item_id = ?", orderItemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get review for order item %s: %w", orderItemID, err)
	}
	return &review, nil
}

// ListByProduct retrieves every review written about a product.
func (r *GORMReviewRepository) ListByProduct(productID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Joins("JOIN order_items ON order_items.id = reviews.order_item_id").
		Where("order_items.product_id = ?", productID).
		Order("reviews.created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for product %s: %w", productID, err)
	}
	return reviews, nil
}

// ListByCustomer retrieves every review written by a customer.
func (r *GORMReviewRepository) ListByCustomer(customerID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Joins("JOIN order_items ON order_items.id = reviews.order_item_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.customer_id = ?", customerID).
		Order("reviews.created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for customer %s: %w", customerID, err)
	}
	return reviews, nil
}
