package repositories

import (
	"lapak/internal/models"
)

// CartRepository defines the interface for cart data access. A customer has
// at most one cart; GetOrCreateByCustomer creates it lazily on first access.
type CartRepository interface {
	// GetOrCreateByCustomer returns the customer's cart with its items and
	// their products loaded.
	GetOrCreateByCustomer(customerID string) (*models.Cart, error)
	GetItem(cartID, productID string) (*models.CartItem, error)
	// UpsertItem inserts the item or, when the (cart, product) pair already
	// exists, overwrites its quantity.
	UpsertItem(item *models.CartItem) error
	RemoveItem(cartID, productID string) error
	ClearItems(cartID string) error
	// Delete removes the cart and all of its items.
	Delete(cartID string) error
}
