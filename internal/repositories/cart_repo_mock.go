package repositories

import (
	"sort"

	"lapak/internal/models"

	"github.com/google/uuid"
)

// mockCartRepo is the in-memory implementation of CartRepository.
type mockCartRepo struct {
	s *MockStore
}

// GetOrCreateByCustomer returns the customer's cart with items and products
// assembled, creating the cart lazily on first access.
func (r *mockCartRepo) GetOrCreateByCustomer(customerID string) (*models.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var cart models.Cart
	found := false
	for _, c := range r.s.carts {
		if c.CustomerID == customerID {
			cart = c
			found = true
			break
		}
	}
	if !found {
		cart = models.Cart{ID: uuid.New().String(), CustomerID: customerID}
		r.s.carts[cart.ID] = cart
	}

	for _, item := range r.s.cartItems {
		if item.CartID != cart.ID {
			continue
		}
		if p, ok := r.s.products[item.ProductID]; ok {
			item.Product = p
		}
		cart.Items = append(cart.Items, item)
	}
	sort.Slice(cart.Items, func(i, j int) bool {
		return cart.Items[i].Product.Title < cart.Items[j].Product.Title
	})
	return &cart, nil
}

// GetItem returns the (cart, product) line with its product assembled.
func (r *mockCartRepo) GetItem(cartID, productID string) (*models.CartItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, item := range r.s.cartItems {
		if item.CartID == cartID && item.ProductID == productID {
			if p, ok := r.s.products[item.ProductID]; ok {
				item.Product = p
			}
			return &item, nil
		}
	}
	return nil, models.ErrCartItemNotFound
}

// UpsertItem inserts the line or overwrites the quantity of an existing one.
func (r *mockCartRepo) UpsertItem(item *models.CartItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, existing := range r.s.cartItems {
		if existing.CartID == item.CartID && existing.ProductID == item.ProductID {
			existing.Quantity = item.Quantity
			r.s.cartItems[id] = existing
			item.ID = existing.ID
			return nil
		}
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	stored := *item
	stored.Product = models.Product{}
	r.s.cartItems[item.ID] = stored
	return nil
}

// RemoveItem deletes one line from the cart.
func (r *mockCartRepo) RemoveItem(cartID, productID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, item := range r.s.cartItems {
		if item.CartID == cartID && item.ProductID == productID {
			delete(r.s.cartItems, id)
			return nil
		}
	}
	return models.ErrCartItemNotFound
}

// ClearItems deletes every line of the cart.
func (r *mockCartRepo) ClearItems(cartID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, item := range r.s.cartItems {
		if item.CartID == cartID {
			delete(r.s.cartItems, id)
		}
	}
	return nil
}

// Delete removes the cart together with its items.
func (r *mockCartRepo) Delete(cartID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, item := range r.s.cartItems {
		if item.CartID == cartID {
			delete(r.s.cartItems, id)
		}
	}
	delete(r.s.carts, cartID)
	return nil
}
