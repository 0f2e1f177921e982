package repositories

import (
	"fmt"
	"sort"
	"time"

	"lapak/internal/models"

	"github.com/google/uuid"
)

// mockOrderRepo is the in-memory implementation of OrderRepository.
type mockOrderRepo struct {
	s *MockStore
}

// Create adds a new order together with its items.
func (r *mockOrderRepo) Create(order *models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.UpdatedAt = order.CreatedAt

	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
		stored := order.Items[i]
		stored.Product = models.Product{}
		r.s.orderItems[stored.ID] = stored
	}

	stored := *order
	stored.Items = nil
	r.s.orders[order.ID] = stored
	return nil
}

// GetByID returns an order with its items and products assembled.
func (r *mockOrderRepo) GetByID(id string) (*models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	order, ok := r.s.orders[id]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	r.attachItems(&order)
	return &order, nil
}

// GetItem returns one order line with its product assembled.
func (r *mockOrderRepo) GetItem(orderItemID string) (*models.OrderItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	item, ok := r.s.orderItems[orderItemID]
	if !ok {
		return nil, models.ErrOrderItemNotFound
	}
	if p, ok := r.s.products[item.ProductID]; ok {
		item.Product = p
	}
	return &item, nil
}

// List returns orders matching the filter, newest first.
func (r *mockOrderRepo) List(filter OrderFilter) ([]models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var orders []models.Order
	for _, o := range r.s.orders {
		if filter.CustomerID != "" && o.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if !filter.CreatedAfter.IsZero() && o.CreatedAt.Before(filter.CreatedAfter) {
			continue
		}
		if !filter.CreatedBefore.IsZero() && o.CreatedAt.After(filter.CreatedBefore) {
			continue
		}
		r.attachItems(&o)
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * filter.PageSize
		if start > len(orders) {
			start = len(orders)
		}
		end := start + filter.PageSize
		if end > len(orders) {
			end = len(orders)
		}
		orders = orders[start:end]
	}
	return orders, nil
}

// UpdateStatus moves the order from one status to another. The write only
// applies while the stored status still matches from, mirroring the
// compare-and-swap the SQL implementation does in its WHERE clause.
func (r *mockOrderRepo) UpdateStatus(id string, from, to models.OrderStatus, shippingReference string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order, ok := r.s.orders[id]
	if !ok {
		return models.ErrOrderNotFound
	}
	if order.Status != from {
		return models.ErrOrderStatusConflict
	}
	order.Status = to
	order.ShippingReference = shippingReference
	order.UpdatedAt = time.Now()
	r.s.orders[id] = order
	return nil
}

// ListStalePending returns awaiting-payment orders created at or before
// cutoff, with items assembled.
func (r *mockOrderRepo) ListStalePending(cutoff time.Time) ([]models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var orders []models.Order
	for _, o := range r.s.orders {
		if o.Status != models.StatusAwaitingPayment || o.CreatedAt.After(cutoff) {
			continue
		}
		r.attachItems(&o)
		orders = append(orders, o)
	}
	return orders, nil
}

// NextOrderNumber advances the per-day counter and formats the number.
func (r *mockOrderRepo) NextOrderNumber(day time.Time) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	date := day.Format("20060102")
	r.s.counters[date]++
	return fmt.Sprintf("ORD%s-%03d", date, r.s.counters[date]), nil
}

// CountItemsForProduct reports how many order lines reference the product.
func (r *mockOrderRepo) CountItemsForProduct(productID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var count int64
	for _, item := range r.s.orderItems {
		if item.ProductID == productID {
			count++
		}
	}
	return count, nil
}

// attachItems assembles the order's items and products. Callers must hold
// at least a read lock.
func (r *mockOrderRepo) attachItems(order *models.Order) {
	for _, item := range r.s.orderItems {
		if item.OrderID != order.ID {
			continue
		}
		if p, ok := r.s.products[item.ProductID]; ok {
			item.Product = p
		}
		order.Items = append(order.Items, item)
	}
	sort.Slice(order.Items, func(i, j int) bool {
		return order.Items[i].Product.Title < order.Items[j].Product.Title
	})
}
