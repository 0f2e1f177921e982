package models

import "iter"

// Cart is the mutable bag of items a customer intends to buy. It is created
// lazily on first access and deleted the moment an order is placed from it.
type Cart struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID string     `json:"customer_id" gorm:"uniqueIndex;type:varchar(36)"`
	Items      []CartItem `json:"items" gorm:"constraint:OnDelete:CASCADE"`
}

// CartItem is one (product, quantity) line; a product appears at most once
// per cart. Nothing is reserved while the item sits in the cart, so the
// quantity is re-validated against inventory at checkout.
type CartItem struct {
	ID        string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID    string  `json:"cart_id" gorm:"index:idx_cart_product,unique;type:varchar(36)"`
	ProductID string  `json:"product_id" gorm:"index:idx_cart_product,unique;type:varchar(36)"`
	Product   Product `json:"product" gorm:"constraint:OnDelete:CASCADE"`
	Quantity  int     `json:"quantity" validate:"gte=1"`
}

// TotalPrice is the line total at the product's current price.
func (i *CartItem) TotalPrice() int64 {
	return int64(i.Quantity) * i.Product.UnitPrice
}

// CartLine is one entry of a cart snapshot as consumed by checkout.
type CartLine struct {
	Product  Product
	Quantity int
}

// IsEmpty reports whether the cart has no items.
func (c *Cart) IsEmpty() bool { return len(c.Items) == 0 }

// TotalPrice sums the line totals at current product prices.
func (c *Cart) TotalPrice() int64 {
	var total int64
	for i := range c.Items {
		total += c.Items[i].TotalPrice()
	}
	return total
}

// Snapshot returns a restartable sequence over the cart's lines. The cart's
// Items (with products) must be loaded before calling it.
func (c *Cart) Snapshot() iter.Seq[CartLine] {
	return func(yield func(CartLine) bool) {
		for i := range c.Items {
			line := CartLine{Product: c.Items[i].Product, Quantity: c.Items[i].Quantity}
			if !yield(line) {
				return
			}
		}
	}
}
