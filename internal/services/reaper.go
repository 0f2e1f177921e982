package services

import (
	"log"
	"time"

	"lapak/internal/models"
	"lapak/internal/repositories"
)

// PendingOrderReaper cancels orders that sat in AwaitingPayment longer than
// the staleness threshold and gives their reserved inventory back. It is
// driven by an external scheduler and carries no request state of its own.
type PendingOrderReaper struct {
	store     repositories.Store
	ledger    *InventoryLedger
	threshold time.Duration

	// Now is the clock used for the staleness cutoff; tests override it.
	Now func() time.Time
}

// NewPendingOrderReaper creates a new PendingOrderReaper.
func NewPendingOrderReaper(store repositories.Store, ledger *InventoryLedger, threshold time.Duration) *PendingOrderReaper {
	return &PendingOrderReaper{
		store:     store,
		ledger:    ledger,
		threshold: threshold,
		Now:       time.Now,
	}
}

// Run performs one sweep and returns the number of orders cancelled. Each
// order is cancelled in its own transaction; a failure on one order is
// logged and does not block the rest of the sweep. Re-running immediately
// finds nothing, since cancelled orders are no longer awaiting payment.
func (r *PendingOrderReaper) Run() (int, error) {
	cutoff := r.Now().Add(-r.threshold)
	stale, err := r.store.Orders().ListStalePending(cutoff)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for i := range stale {
		if err := r.cancelOne(stale[i].ID); err != nil {
			log.Printf("Reaper: failed to cancel order %s: %v", stale[i].ID, err)
			continue
		}
		cancelled++
	}
	return cancelled, nil
}

func (r *PendingOrderReaper) cancelOne(orderID string) error {
	return r.store.Transaction(func(tx repositories.Store) error {
		// Re-read inside the transaction: a payment may have landed
		// between the sweep query and now.
		order, err := tx.Orders().GetByID(orderID)
		if err != nil {
			return err
		}
		if order.Status != models.StatusAwaitingPayment {
			return &models.StateTransitionError{Current: order.Status, Transition: "cancel"}
		}
		if err := order.Cancel(); err != nil {
			return err
		}
		if err := tx.Orders().UpdateStatus(order.ID, models.StatusAwaitingPayment, order.Status, order.ShippingReference); err != nil {
			return err
		}
		for i := range order.Items {
			if err := r.ledger.Restore(tx.Products(), order.Items[i].ProductID, order.Items[i].Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}
