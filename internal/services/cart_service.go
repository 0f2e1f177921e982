package services

import (
	"lapak/internal/models"
	"lapak/internal/repositories"
)

// CartService handles cart mutations for a customer. Quantities are checked
// against inventory at write time as a courtesy to the shopper; nothing is
// reserved until checkout, which re-validates every line.
type CartService struct {
	store repositories.Store
}

// NewCartService creates a new CartService.
func NewCartService(store repositories.Store) *CartService {
	return &CartService{
		store: store,
	}
}

// Get returns the customer's cart, creating an empty one on first access.
func (s *CartService) Get(customerID string) (*models.Cart, error) {
	return s.store.Carts().GetOrCreateByCustomer(customerID)
}

// AddOrIncrement adds quantity of the product to the cart, adding it onto
// the existing line when the product is already present.
func (s *CartService) AddOrIncrement(customerID, productID string, quantity int) (*models.CartItem, error) {
	return s.putItem(customerID, productID, quantity, true)
}

// SetQuantity replaces the quantity of the product's cart line, inserting
// the line when it does not exist yet.
func (s *CartService) SetQuantity(customerID, productID string, quantity int) (*models.CartItem, error) {
	return s.putItem(customerID, productID, quantity, false)
}

func (s *CartService) putItem(customerID, productID string, quantity int, additive bool) (*models.CartItem, error) {
	cart, err := s.store.Carts().GetOrCreateByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	product, err := s.store.Products().GetByID(productID)
	if err != nil {
		return nil, err
	}

	newQuantity := quantity
	if additive {
		if existing, err := s.store.Carts().GetItem(cart.ID, productID); err == nil {
			newQuantity += existing.Quantity
		}
	}
	if newQuantity > product.Inventory {
		return nil, &models.QuantityExceedsInventoryError{
			ProductID: product.ID,
			Title:     product.Title,
			Requested: newQuantity,
			Available: product.Inventory,
		}
	}

	item := &models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: newQuantity}
	if err := s.store.Carts().UpsertItem(item); err != nil {
		return nil, err
	}
	item.Product = *product
	return item, nil
}

// Remove deletes the product's line from the cart.
func (s *CartService) Remove(customerID, productID string) error {
	cart, err := s.store.Carts().GetOrCreateByCustomer(customerID)
	if err != nil {
		return err
	}
	return s.store.Carts().RemoveItem(cart.ID, productID)
}

// Clear empties the cart.
func (s *CartService) Clear(customerID string) error {
	cart, err := s.store.Carts().GetOrCreateByCustomer(customerID)
	if err != nil {
		return err
	}
	return s.store.Carts().ClearItems(cart.ID)
}
