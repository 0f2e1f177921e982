package services

import (
	"lapak/internal/models"
	"lapak/internal/repositories"
)

// LowStockAlert describes a product whose inventory dropped below its limit
// during a reservation. Alerts are collected inside the checkout transaction
// and dispatched to staff only after it commits.
type LowStockAlert struct {
	ProductID string
	Title     string
	Remaining int
}

// InventoryLedger owns every mutation of product inventory. Reserve and
// Restore must be called with a repository scoped to an open transaction so
// the decrement commits or rolls back together with the order rows.
type InventoryLedger struct{}

// NewInventoryLedger creates a new InventoryLedger.
func NewInventoryLedger() *InventoryLedger {
	return &InventoryLedger{}
}

// Reserve decrements the product's available inventory by quantity under a
// row lock. It fails with InsufficientInventoryError when quantity exceeds
// the available stock, leaving the product untouched. When the decrement
// lands below the product's limit a LowStockAlert is returned.
func (l *InventoryLedger) Reserve(products repositories.ProductRepository, productID string, quantity int) (*LowStockAlert, error) {
	product, err := products.GetByIDForUpdate(productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Inventory {
		return nil, &models.InsufficientInventoryError{
			ProductID: product.ID,
			Title:     product.Title,
			Requested: quantity,
			Available: product.Inventory,
		}
	}

	product.Inventory -= quantity
	if err := products.Update(product); err != nil {
		return nil, err
	}

	if l.IsLow(product) {
		return &LowStockAlert{
			ProductID: product.ID,
			Title:     product.Title,
			Remaining: product.Inventory,
		}, nil
	}
	return nil, nil
}

// Restore gives quantity units back to the product, used when a reserved
// order is cancelled.
func (l *InventoryLedger) Restore(products repositories.ProductRepository, productID string, quantity int) error {
	product, err := products.GetByIDForUpdate(productID)
	if err != nil {
		return err
	}
	product.Inventory += quantity
	return products.Update(product)
}

// IsLow reports whether the product's available inventory is below its
// configured limit.
func (l *InventoryLedger) IsLow(product *models.Product) bool {
	return product.Inventory < product.Limit
}
