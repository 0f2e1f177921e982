package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"lapak/internal/models"
	"lapak/internal/repositories"
)

// OrderService owns the order lifecycle: the checkout transaction that turns
// a cart into an order, and the guarded status transitions afterwards.
type OrderService struct {
	store    repositories.Store
	ledger   *InventoryLedger
	notifier Notifier
	events   EventPublisher
}

// NewOrderService creates a new OrderService. notifier and events may be nil
// when the corresponding infrastructure is not wired (tests, local runs).
func NewOrderService(store repositories.Store, ledger *InventoryLedger, notifier Notifier, events EventPublisher) *OrderService {
	return &OrderService{
		store:    store,
		ledger:   ledger,
		notifier: notifier,
		events:   events,
	}
}

// Checkout atomically converts the customer's cart into an order:
// every cart line is re-validated against inventory, one order item is
// created per line with the unit price snapshotted from the product, the
// inventory is reserved, and the cart is deleted. Any failure rolls the
// whole operation back, leaving cart and inventory untouched. Low-stock
// alerts collected during reservation are dispatched to staff only after
// the transaction has committed.
func (s *OrderService) Checkout(customerID string) (*models.Order, error) {
	var order *models.Order
	var alerts []LowStockAlert

	err := s.store.Transaction(func(tx repositories.Store) error {
		cart, err := tx.Carts().GetOrCreateByCustomer(customerID)
		if err != nil {
			return err
		}
		if cart.IsEmpty() {
			return models.ErrEmptyCart
		}

		number, err := tx.Orders().NextOrderNumber(time.Now())
		if err != nil {
			return err
		}
		order = &models.Order{
			OrderNumber: number,
			CustomerID:  customerID,
			Status:      models.StatusAwaitingPayment,
		}

		for line := range cart.Snapshot() {
			alert, err := s.ledger.Reserve(tx.Products(), line.Product.ID, line.Quantity)
			if err != nil {
				return err
			}
			if alert != nil {
				alerts = append(alerts, *alert)
			}
			order.Items = append(order.Items, models.OrderItem{
				ProductID: line.Product.ID,
				Quantity:  line.Quantity,
				UnitPrice: line.Product.UnitPrice,
			})
		}

		if err := tx.Orders().Create(order); err != nil {
			return err
		}
		return tx.Carts().Delete(cart.ID)
	})
	if err != nil {
		return nil, err
	}

	s.dispatchLowStockAlerts(alerts)
	s.publishOrderEvent("order.created", order)
	return order, nil
}

// CompletePayment moves the order to Processed once the payment gateway has
// confirmed payment.
func (s *OrderService) CompletePayment(orderID string) (*models.Order, error) {
	return s.applyTransition(orderID, "order.payment_completed", func(o *models.Order) error {
		return o.CompletePayment()
	})
}

// Ship records the shipping reference and moves the order to Shipped.
func (s *OrderService) Ship(orderID, shippingReference string) (*models.Order, error) {
	return s.applyTransition(orderID, "order.shipped", func(o *models.Order) error {
		return o.Ship(shippingReference)
	})
}

// Complete moves the order to Completed.
func (s *OrderService) Complete(orderID string) (*models.Order, error) {
	return s.applyTransition(orderID, "order.completed", func(o *models.Order) error {
		return o.Complete()
	})
}

// Cancel moves the order to Cancelled and gives the reserved inventory back
// to its products, all in one transaction.
func (s *OrderService) Cancel(orderID string) (*models.Order, error) {
	var order *models.Order
	err := s.store.Transaction(func(tx repositories.Store) error {
		o, err := tx.Orders().GetByID(orderID)
		if err != nil {
			return err
		}
		from := o.Status
		if err := o.Cancel(); err != nil {
			return err
		}
		if err := tx.Orders().UpdateStatus(o.ID, from, o.Status, o.ShippingReference); err != nil {
			return err
		}
		for i := range o.Items {
			if err := s.ledger.Restore(tx.Products(), o.Items[i].ProductID, o.Items[i].Quantity); err != nil {
				return err
			}
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishOrderEvent("order.cancelled", order)
	return order, nil
}

// GetOrder retrieves one order. Non-staff callers only see their own orders.
func (s *OrderService) GetOrder(orderID, customerID string, isStaff bool) (*models.Order, error) {
	order, err := s.store.Orders().GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if !isStaff && order.CustomerID != customerID {
		return nil, models.ErrOrderNotFound
	}
	return order, nil
}

// ListOrders retrieves orders matching the filter. Non-staff callers are
// always scoped to their own orders.
func (s *OrderService) ListOrders(filter repositories.OrderFilter, customerID string, isStaff bool) ([]models.Order, error) {
	if !isStaff {
		filter.CustomerID = customerID
	}
	return s.store.Orders().List(filter)
}

// applyTransition loads the order, applies the state-machine transition and
// persists the new status before returning. A guard failure surfaces as a
// StateTransitionError with nothing persisted. The write compare-and-swaps
// on the loaded status, so a transition racing another one loses with
// ErrOrderStatusConflict instead of overwriting its result.
func (s *OrderService) applyTransition(orderID, event string, transition func(*models.Order) error) (*models.Order, error) {
	order, err := s.store.Orders().GetByID(orderID)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if err := transition(order); err != nil {
		return nil, err
	}
	if err := s.store.Orders().UpdateStatus(order.ID, from, order.Status, order.ShippingReference); err != nil {
		return nil, err
	}
	s.publishOrderEvent(event, order)
	return order, nil
}

// dispatchLowStockAlerts sends one notification per alert to every staff
// user. Best effort: failures are logged, never propagated, since the order
// has already committed.
func (s *OrderService) dispatchLowStockAlerts(alerts []LowStockAlert) {
	if s.notifier == nil || len(alerts) == 0 {
		return
	}
	recipients, err := s.store.Users().StaffEmails()
	if err != nil {
		log.Printf("Warning: failed to resolve staff recipients for low-stock alerts: %v", err)
		return
	}
	for _, alert := range alerts {
		subject := fmt.Sprintf("Product: %s", alert.Title)
		body := fmt.Sprintf("Stock of %s has fallen below its limit. Remaining inventory: %d",
			alert.Title, alert.Remaining)
		if err := s.notifier.Notify(subject, body, recipients); err != nil {
			log.Printf("Warning: failed to send low-stock alert for product %s: %v", alert.ProductID, err)
		}
	}
}

// publishOrderEvent emits an order lifecycle event to the broker, if one is
// wired. Best effort, like the alert dispatch.
func (s *OrderService) publishOrderEvent(routingKey string, order *models.Order) {
	if s.events == nil || order == nil {
		return
	}
	payload := map[string]any{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"customer_id":  order.CustomerID,
		"status":       order.Status,
		"total_price":  order.TotalPrice(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Warning: failed to marshal %s event for order %s: %v", routingKey, order.ID, err)
		return
	}
	if err := s.events.Publish("order", routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", routingKey, order.ID, err)
	}
}
