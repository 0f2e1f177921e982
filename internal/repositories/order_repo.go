package repositories

import (
	"time"

	"lapak/internal/models"
)

// OrderFilter narrows an order listing. Zero values mean "no constraint".
type OrderFilter struct {
	CustomerID    string
	Status        models.OrderStatus
	CreatedAfter  time.Time
	CreatedBefore time.Time
	Page          int
	PageSize      int
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetItem(orderItemID string) (*models.OrderItem, error)
	List(filter OrderFilter) ([]models.Order, error)
	// UpdateStatus persists the status and shipping reference reached by a
	// state-machine transition. The write is a compare-and-swap on the
	// stored status: it only applies while the order is still in from, and
	// returns ErrOrderStatusConflict when a concurrent transition won the
	// race. It never validates the transition itself.
	UpdateStatus(id string, from, to models.OrderStatus, shippingReference string) error
	// ListStalePending returns orders still awaiting payment that were
	// created at or before cutoff.
	ListStalePending(cutoff time.Time) ([]models.Order, error)
	// NextOrderNumber mints the next ORD<YYYYMMDD>-<NNN> number for the
	// given day from a per-day counter. Must be called inside the checkout
	// transaction.
	NextOrderNumber(day time.Time) (string, error)
	// CountItemsForProduct reports how many order lines reference the
	// product; a referenced product must not be deleted.
	CountItemsForProduct(productID string) (int64, error)
}
