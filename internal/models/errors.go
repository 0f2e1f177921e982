package models

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to HTTP handlers via errors.Is.
var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrOrderNotFound     = errors.New("order not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrOrderItemNotFound = errors.New("order item not found")
	ErrProductInUse      = errors.New("product is referenced by existing orders")
	ErrDuplicateReview   = errors.New("order item already has a review")
	ErrReviewNotEligible = errors.New("order is not completed yet")

	// ErrOrderStatusConflict reports that the stored status moved between a
	// transition's read and its write, so the write was not applied.
	ErrOrderStatusConflict = errors.New("order status changed concurrently")
)

// InsufficientInventoryError aborts a checkout when a line asks for more
// units than are available.
type InsufficientInventoryError struct {
	ProductID string
	Title     string
	Requested int
	Available int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for %q: requested %d, available %d",
		e.Title, e.Requested, e.Available)
}

// QuantityExceedsInventoryError rejects a cart mutation that would put more
// units in the cart than the product currently has in stock. This is a
// write-time courtesy check only; checkout re-validates inventory.
type QuantityExceedsInventoryError struct {
	ProductID string
	Title     string
	Requested int
	Available int
}

func (e *QuantityExceedsInventoryError) Error() string {
	return fmt.Sprintf("quantity %d for %q exceeds available inventory %d",
		e.Requested, e.Title, e.Available)
}
