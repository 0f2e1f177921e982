package models

import (
	"fmt"
	"time"
)

// OrderStatus is the order lifecycle state. Status may only change through
// the transition methods on Order; assigning the field directly bypasses the
// guards and is forbidden outside this file.
type OrderStatus string

const (
	StatusAwaitingPayment OrderStatus = "awaiting_payment"
	StatusProcessed       OrderStatus = "processed"
	StatusShipped         OrderStatus = "shipped"
	StatusCompleted       OrderStatus = "completed"
	StatusCancelled       OrderStatus = "cancelled"
)

// String returns the human-readable label used in API responses and logs.
func (s OrderStatus) String() string { return string(s) }

// IsTerminal reports whether no further transition can leave s.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Order is created exactly once per successful checkout and is immutable
// afterwards except for Status and ShippingReference.
type Order struct {
	ID                string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber       string      `json:"order_number" gorm:"uniqueIndex;type:varchar(20)"`
	CustomerID        string      `json:"customer_id" gorm:"index;type:varchar(36)"`
	Status            OrderStatus `json:"status" gorm:"type:varchar(20)"`
	ShippingReference string      `json:"shipping_reference,omitempty" gorm:"type:varchar(50)"`
	Items             []OrderItem `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// OrderItem is one line of an order. UnitPrice is snapshotted from the
// product at order-creation time and never follows later price changes.
type OrderItem struct {
	ID        string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string  `json:"order_id" gorm:"index:idx_order_product,unique;type:varchar(36)"`
	ProductID string  `json:"product_id" gorm:"index:idx_order_product,unique;type:varchar(36)"`
	Product   Product `json:"product" gorm:"constraint:OnDelete:RESTRICT"`
	Quantity  int     `json:"quantity" validate:"gte=1"`
	UnitPrice int64   `json:"unit_price" validate:"gte=1"`
}

// TotalPrice is always quantity times the snapshotted unit price.
func (i *OrderItem) TotalPrice() int64 {
	return int64(i.Quantity) * i.UnitPrice
}

// TotalPrice sums the line totals.
func (o *Order) TotalPrice() int64 {
	var total int64
	for i := range o.Items {
		total += o.Items[i].TotalPrice()
	}
	return total
}

// IsPending reports whether the order is still waiting for payment.
func (o *Order) IsPending() bool {
	return o.Status == StatusAwaitingPayment
}

// CompletePayment moves the order from AwaitingPayment to Processed.
func (o *Order) CompletePayment() error {
	return o.transition("complete_payment", StatusProcessed, StatusAwaitingPayment)
}

// Ship records the carrier reference and moves the order from Processed to
// Shipped. The reference is only written when the transition is legal.
func (o *Order) Ship(shippingReference string) error {
	if err := o.transition("ship", StatusShipped, StatusProcessed); err != nil {
		return err
	}
	o.ShippingReference = shippingReference
	return nil
}

// Complete moves the order from Shipped to Completed.
func (o *Order) Complete() error {
	return o.transition("complete", StatusCompleted, StatusShipped)
}

// Cancel moves the order to Cancelled. Only orders that have not shipped yet
// can be cancelled.
func (o *Order) Cancel() error {
	return o.transition("cancel", StatusCancelled, StatusAwaitingPayment, StatusProcessed)
}

// transition applies the target status when the current status is one of the
// allowed sources, otherwise it returns a StateTransitionError and leaves the
// order untouched.
func (o *Order) transition(name string, target OrderStatus, allowed ...OrderStatus) error {
	for _, source := range allowed {
		if o.Status == source {
			o.Status = target
			return nil
		}
	}
	return &StateTransitionError{Current: o.Status, Transition: name}
}

// OrderCounter backs per-day order-number allocation. One row exists per
// calendar day; LastSeq is incremented under a row lock inside the checkout
// transaction so concurrent checkouts cannot mint the same number.
type OrderCounter struct {
	Day     string `gorm:"primaryKey;type:varchar(8)"`
	LastSeq int
}

// StateTransitionError reports an illegal lifecycle transition attempt.
type StateTransitionError struct {
	Current    OrderStatus
	Transition string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("cannot %s order in status %q", e.Transition, e.Current)
}
