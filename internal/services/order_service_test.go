package services_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderService(store *repositories.MockStore) (*services.OrderService, *fakeNotifier, *fakePublisher) {
	notifier := &fakeNotifier{}
	events := &fakePublisher{}
	service := services.NewOrderService(store, services.NewInventoryLedger(), notifier, events)
	return service, notifier, events
}

func TestCheckoutCreatesOrderAndClearsCart(t *testing.T) {
	store := repositories.NewMockStore()
	service, _, events := newOrderService(store)

	customer := seedCustomer(t, store, "buyer@example.com")
	coffee := seedProduct(t, store, "Kopi Gayo", 2500, 10, 2)
	tea := seedProduct(t, store, "Teh Hijau", 1000, 20, 2)
	addToCart(t, store, customer.ID, coffee.ID, 2)
	addToCart(t, store, customer.ID, tea.ID, 3)

	order, err := service.Checkout(customer.ID)
	require.NoError(t, err)

	expectedNumber := fmt.Sprintf("ORD%s-001", time.Now().Format("20060102"))
	assert.Equal(t, expectedNumber, order.OrderNumber)
	assert.Equal(t, models.StatusAwaitingPayment, order.Status)
	assert.Equal(t, customer.ID, order.CustomerID)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, int64(8000), order.TotalPrice())

	// Inventory was reserved.
	updatedCoffee, err := store.Products().GetByID(coffee.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, updatedCoffee.Inventory)
	updatedTea, err := store.Products().GetByID(tea.ID)
	require.NoError(t, err)
	assert.Equal(t, 17, updatedTea.Inventory)

	// The cart is gone; the next access starts fresh.
	cart, err := store.Carts().GetOrCreateByCustomer(customer.ID)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	assert.Equal(t, []string{"order.created"}, events.routingKeys())
}

func TestCheckoutEmptyCart(t *testing.T) {
	store := repositories.NewMockStore()
	service, _, events := newOrderService(store)
	customer := seedCustomer(t, store, "buyer@example.com")

	order, err := service.Checkout(customer.ID)
	assert.ErrorIs(t, err, models.ErrEmptyCart)
	assert.Nil(t, order)
	assert.Empty(t, events.routingKeys())
}

func TestCheckoutInsufficientInventoryRollsBack(t *testing.T) {
	store := repositories.NewMockStore()
	service, _, events := newOrderService(store)

	customer := seedCustomer(t, store, "buyer@example.com")
	coffee := seedProduct(t, store, "Kopi Gayo", 2500, 10, 2)
	scarce := seedProduct(t, store, "Madu Hutan", 8000, 1, 0)
	addToCart(t, store, customer.ID, coffee.ID, 2)
	addToCart(t, store, customer.ID, scarce.ID, 3)

	order, err := service.Checkout(customer.ID)
	assert.Nil(t, order)
	var invErr *models.InsufficientInventoryError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, scarce.ID, invErr.ProductID)
	assert.Equal(t, 3, invErr.Requested)
	assert.Equal(t, 1, invErr.Available)

	// The whole transaction rolled back: no reservation, cart intact,
	// no order.
	updatedCoffee, err := store.Products().GetByID(coffee.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, updatedCoffee.Inventory)
	cart, err := store.Carts().GetOrCreateByCustomer(customer.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	orders, err := store.Orders().List(repositories.OrderFilter{CustomerID: customer.ID})
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, events.routingKeys())
}

func TestCheckoutSnapshotsUnitPrice(t *testing.T) {
	store := repositories.NewMockStore()
	service, _, _ := newOrderService(store)

	customer := seedCustomer(t, store, "buyer@example.com")
	coffee := seedProduct(t, store, "Kopi Gayo", 2500, 10, 2)
	addToCart(t, store, customer.ID, coffee.ID, 1)

	order, err := service.Checkout(customer.ID)
	require.NoError(t, err)

	// A later price change must not move the order total.
	updated, err := store.Products().GetByID(coffee.ID)
	require.NoError(t, err)
	updated.UnitPrice = 9900
	require.NoError(t, store.Products().Update(updated))

	reloaded, err := store.Orders().GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), reloaded.Items[0].UnitPrice)
	assert.Equal(t, int64(2500), reloaded.TotalPrice())
}

func TestCheckoutOrderNumbersSequentialPerDay(t *testing.T) {
	store := repositories.NewMockStore()
	service, _, _ := newOrderService(store)
	coffee := seedProduct(t, store, "Kopi Gayo", 2500, 100, 2)

	date := time.Now().Format("20060102")
	for i := 1; i <= 3; i++ {
		customer := seedCustomer(t, store, fmt.Sprintf("buyer%d@example.com", i))
		addToCart(t, store, customer.ID, coffee.ID, 1)
		order, err := service.Checkout(customer.ID)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("ORD%s-%03d", date, i), order.OrderNumber)
	}
}

func TestOrderNumbersResetAcrossDays(t *testing.T) {
	store := repositories.NewMockStore()

	today := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	tomorrow := today.Add(24 * time.Hour)

	first, err := store.Orders().NextOrderNumber(today)
	require.NoError(t, err)
	assert.Equal(t, "ORD20260831-001", first)
	second, err := store.Orders().NextOrderNumber(today)
	require.NoError(t, err)
	assert.Equal(t, "ORD20260831-002", second)

	nextDay, err := store.Orders().NextOrderNumber(tomorrow)
	require.NoError(t, err)
	assert.Equal(t, "ORD20260901-001", nextDay)
}

func TestCheckoutLowStockAlerts(t *testing.T) {
	store := repositories.NewMockStore()
	service, notifier, _ := newOrderService(store)

	seedStaff(t, store, "admin@example.com")
	customer := seedCustomer(t, store, "buyer@example.com")
	scarce := seedProduct(t, store, "Madu Hutan", 8000, 5, 5)
	plenty := seedProduct(t, store, "Kopi Gayo", 2500, 100, 5)
	addToCart(t, store, customer.ID, scarce.ID, 1)
	addToCart(t, store, customer.ID, plenty.ID, 1)

	_, err := service.Checkout(customer.ID)
	require.NoError(t, err)

	sent := notifier.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "Product: Madu Hutan", sent[0].Subject)
	assert.Contains(t, sent[0].Body, "Remaining inventory: 4")
	assert.Equal(t, []string{"admin@example.com"}, sent[0].Recipients)
}

func TestCheckoutFailureSendsNoAlerts(t *testing.T) {
	store := repositories.NewMockStore()
	service, notifier, _ := newOrderService(store)

	seedStaff(t, store, "admin@example.com")
	customer := seedCustomer(t, store, "buyer@example.com")
	low := seedProduct(t, store, "Madu Hutan", 8000, 3, 5)
	scarce := seedProduct(t, store, "Gula Aren", 4000, 1, 0)
	addToCart(t, store, customer.ID, low.ID, 1)
	addToCart(t, store, customer.ID, scarce.ID, 2)

	_, err := service.Checkout(customer.ID)
	require.Error(t, err)
	assert.Empty(t, notifier.all())
}

func TestConcurrentCheckoutsDoNotOversell(t *testing.T) {
	store := repositories.NewMockStore()
	service, _, _ := newOrderService(store)
	coffee := seedProduct(t, store, "Kopi Gayo", 2500, 5, 0)

	customers := make([]*models.Customer, 10)
	for i := range customers {
		customers[i] = seedCustomer(t, store, fmt.Sprintf("buyer%d@example.com", i))
		addToCart(t, store, customers[i].ID, coffee.ID, 1)
	}

	var wg sync.WaitGroup
	errs := make([]error, len(customers))
	for i := range customers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.Checkout(customers[i].ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			var invErr *models.InsufficientInventoryError
			assert.ErrorAs(t, err, &invErr)
		}
	}
	assert.Equal(t, 5, succeeded)

	updated, err := store.Products().GetByID(coffee.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Inventory)
}

func TestConcurrentTransitionsSingleWinner(t *testing.T) {
	store := repositories.NewMockStore()
	service, _, events := newOrderService(store)

	customer := seedCustomer(t, store, "buyer@example.com")
	coffee := seedProduct(t, store, "Kopi Gayo", 2500, 10, 0)
	addToCart(t, store, customer.ID, coffee.ID, 2)
	order, err := service.Checkout(customer.ID)
	require.NoError(t, err)

	// Two deliveries of the same payment confirmation race each other.
	// Exactly one may land; the loser fails on either the guard or the
	// status compare-and-swap, depending on the interleaving.
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.CompletePayment(order.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var transitionErr *models.StateTransitionError
		lost := errors.Is(err, models.ErrOrderStatusConflict) || errors.As(err, &transitionErr)
		assert.True(t, lost, "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	reloaded, err := store.Orders().GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessed, reloaded.Status)
	assert.Equal(t, []string{"order.created", "order.payment_completed"}, events.routingKeys())
}

func checkoutOrder(t *testing.T, store *repositories.MockStore, service *services.OrderService, quantity int) (*models.Order, *models.Product) {
	t.Helper()
	customer := seedCustomer(t, store, fmt.Sprintf("buyer-%d@example.com", time.Now().UnixNano()))
	product := seedProduct(t, store, "Kopi Gayo", 2500, 10, 0)
	addToCart(t, store, customer.ID, product.ID, quantity)
	order, err := service.Checkout(customer.ID)
	require.NoError(t, err)
	return order, product
}

func TestOrderLifecycleHappyPath(t *testing.T) {
	store := repositories.NewMockStore()
	service, _, events := newOrderService(store)
	order, _ := checkoutOrder(t, store, service, 1)

	paid, err := service.CompletePayment(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessed, paid.Status)

	shipped, err := service.Ship(order.ID, "JNE-123")
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, shipped.Status)
	assert.Equal(t, "JNE-123", shipped.ShippingReference)

	completed, err := service.Complete(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)

	// The shipping reference survives the final transition.
	reloaded, err := store.Orders().GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, "JNE-123", reloaded.ShippingReference)

	assert.Equal(t, []string{
		"order.created",
		"order.payment_completed",
		"order.shipped",
		"order.completed",
	}, events.routingKeys())
}

func TestIllegalTransitionPersistsNothing(t *testing.T) {
	store := repositories.NewMockStore()
	service, _, _ := newOrderService(store)
	order, _ := checkoutOrder(t, store, service, 1)

	_, err := service.Ship(order.ID, "JNE-123")
	var transitionErr *models.StateTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, models.StatusAwaitingPayment, transitionErr.Current)

	reloaded, err := store.Orders().GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAwaitingPayment, reloaded.Status)
	assert.Empty(t, reloaded.ShippingReference)
}

func TestCancelRestoresInventory(t *testing.T) {
	store := repositories.NewMockStore()
	service, _, events := newOrderService(store)
	order, product := checkoutOrder(t, store, service, 3)

	reserved, err := store.Products().GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, reserved.Inventory)

	cancelled, err := service.Cancel(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)

	restored, err := store.Products().GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, restored.Inventory)

	assert.Contains(t, events.routingKeys(), "order.cancelled")
}

func TestCancelShippedOrderFails(t *testing.T) {
	store := repositories.NewMockStore()
	service, _, _ := newOrderService(store)
	order, product := checkoutOrder(t, store, service, 2)

	_, err := service.CompletePayment(order.ID)
	require.NoError(t, err)
	_, err = service.Ship(order.ID, "JNE-123")
	require.NoError(t, err)

	_, err = service.Cancel(order.ID)
	var transitionErr *models.StateTransitionError
	assert.ErrorAs(t, err, &transitionErr)

	// Nothing was restored.
	current, err := store.Products().GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, current.Inventory)
}

func TestGetOrderScopedToOwner(t *testing.T) {
	store := repositories.NewMockStore()
	service, _, _ := newOrderService(store)
	order, _ := checkoutOrder(t, store, service, 1)
	stranger := seedCustomer(t, store, "stranger@example.com")

	_, err := service.GetOrder(order.ID, stranger.ID, false)
	assert.ErrorIs(t, err, models.ErrOrderNotFound)

	got, err := service.GetOrder(order.ID, order.CustomerID, false)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	// Staff see everything.
	got, err = service.GetOrder(order.ID, stranger.ID, true)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestListOrdersScopedToOwner(t *testing.T) {
	store := repositories.NewMockStore()
	service, _, _ := newOrderService(store)
	first, _ := checkoutOrder(t, store, service, 1)
	second, _ := checkoutOrder(t, store, service, 1)

	mine, err := service.ListOrders(repositories.OrderFilter{}, first.CustomerID, false)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	// A non-staff caller cannot widen the filter to someone else.
	mine, err = service.ListOrders(repositories.OrderFilter{CustomerID: second.CustomerID}, first.CustomerID, false)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	all, err := service.ListOrders(repositories.OrderFilter{}, "", true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
