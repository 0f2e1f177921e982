package services_test

import (
	"sync"
	"testing"

	"lapak/internal/models"
	"lapak/internal/repositories"

	"github.com/stretchr/testify/require"
)

func seedProduct(t *testing.T, store *repositories.MockStore, title string, price int64, inventory, limit int) *models.Product {
	t.Helper()
	product := &models.Product{
		Title:     title,
		UnitPrice: price,
		Inventory: inventory,
		Limit:     limit,
		IsActive:  true,
	}
	require.NoError(t, store.Products().Create(product))
	return product
}

func seedCustomer(t *testing.T, store *repositories.MockStore, email string) *models.Customer {
	t.Helper()
	user := &models.User{Email: email, FirstName: "Test", LastName: "User", Password: "x", IsActive: true}
	require.NoError(t, store.Users().Create(user))
	customer := &models.Customer{UserID: user.ID}
	require.NoError(t, store.Users().CreateCustomer(customer))
	return customer
}

func seedStaff(t *testing.T, store *repositories.MockStore, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, FirstName: "Staff", LastName: "User", Password: "x", IsActive: true, IsStaff: true}
	require.NoError(t, store.Users().Create(user))
	return user
}

func addToCart(t *testing.T, store *repositories.MockStore, customerID, productID string, quantity int) {
	t.Helper()
	cart, err := store.Carts().GetOrCreateByCustomer(customerID)
	require.NoError(t, err)
	require.NoError(t, store.Carts().UpsertItem(&models.CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  quantity,
	}))
}

type sentNotification struct {
	Subject    string
	Body       string
	Recipients []string
}

// fakeNotifier records notifications instead of publishing them.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (f *fakeNotifier) Notify(subject, body string, recipients []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentNotification{Subject: subject, Body: body, Recipients: recipients})
	return nil
}

func (f *fakeNotifier) all() []sentNotification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentNotification(nil), f.sent...)
}

type publishedEvent struct {
	Exchange   string
	RoutingKey string
	Body       []byte
}

// fakePublisher records events instead of publishing them.
type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (f *fakePublisher) Publish(exchange, routingKey string, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{Exchange: exchange, RoutingKey: routingKey, Body: body})
	return nil
}

func (f *fakePublisher) routingKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, len(f.events))
	for i := range f.events {
		keys[i] = f.events[i].RoutingKey
	}
	return keys
}
