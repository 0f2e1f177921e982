package repositories

import (
	"errors"
	"fmt"
	"time"

	"lapak/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create persists the order together with its items.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	if err := r.db.Omit("Items.Product").Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves an order with its items and their products loaded.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").Preload("Items.Product").First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetItem retrieves one order line with its product loaded.
func (r *GORMOrderRepository) GetItem(orderItemID string) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.Preload("Product").First(&item, "id = ?", orderItemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrOrderItemNotFound
		}
		return nil, fmt.Errorf("failed to get order item %s: %w", orderItemID, err)
	}
	return &item, nil
}

// List retrieves orders matching the filter, newest first.
func (r *GORMOrderRepository) List(filter OrderFilter) ([]models.Order, error) {
	query := r.db.Preload("Items").Preload("Items.Product").Order("created_at DESC")

	if filter.CustomerID != "" {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if !filter.CreatedAfter.IsZero() {
		query = query.Where("created_at >= ?", filter.CreatedAfter)
	}
	if !filter.CreatedBefore.IsZero() {
		query = query.Where("created_at <= ?", filter.CreatedBefore)
	}
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves the order from one status to another. The status guard
// in the WHERE clause makes the write a compare-and-swap, so two concurrent
// transitions cannot both land on the same row.
func (r *GORMOrderRepository) UpdateStatus(id string, from, to models.OrderStatus, shippingReference string) error {
	res := r.db.Model(&models.Order{}).Where("id = ? AND status = ?", id, from).Updates(map[string]any{
		"status":             to,
		"shipping_reference": shippingReference,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update status for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&models.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to update status for order %s: %w", id, err)
		}
		if count == 0 {
			return models.ErrOrderNotFound
		}
		return models.ErrOrderStatusConflict
	}
	return nil
}

// ListStalePending retrieves awaiting-payment orders created at or before
// cutoff, with items loaded so the reaper can restore inventory.
func (r *GORMOrderRepository) ListStalePending(cutoff time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").
		Where("status = ? AND created_at <= ?", models.StatusAwaitingPayment, cutoff).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stale pending orders: %w", err)
	}
	return orders, nil
}

// NextOrderNumber mints the next order number for the given day from the
// per-day counter row, locking the row for the rest of the transaction.
func (r *GORMOrderRepository) NextOrderNumber(day time.Time) (string, error) {
	date := day.Format("20060102")

	// Make sure the counter row exists, then bump it under a row lock.
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.OrderCounter{Day: date}).Error
	if err != nil {
		return "", fmt.Errorf("failed to init order counter for %s: %w", date, err)
	}

	var counter models.OrderCounter
	err = r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&counter, "day = ?", date).Error
	if err != nil {
		return "", fmt.Errorf("failed to lock order counter for %s: %w", date, err)
	}

	counter.LastSeq++
	if err := r.db.Save(&counter).Error; err != nil {
		return "", fmt.Errorf("failed to advance order counter for %s: %w", date, err)
	}
	return fmt.Sprintf("ORD%s-%03d", date, counter.LastSeq), nil
}

// CountItemsForProduct reports how many order lines reference the product.
func (r *GORMOrderRepository) CountItemsForProduct(productID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.OrderItem{}).Where("product_id = ?", productID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count order items for product %s: %w", productID, err)
	}
	return count, nil
}
