package repositories_test

import (
	"fmt"
	"testing"
	"time"

	"lapak/internal/models"
	"lapak/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestStore opens a private in-memory SQLite database with the full
// schema. The row-locking paths (GetByIDForUpdate, NextOrderNumber) are not
// exercised here; SQLite has no SELECT ... FOR UPDATE.
func newTestStore(t *testing.T) *repositories.GORMStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Category{},
		&models.Product{},
		&models.FeaturedProduct{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderCounter{},
		&models.Review{},
	))
	return repositories.NewGORMStore(db)
}

func createProduct(t *testing.T, store repositories.Store, title string, price int64, inventory int) *models.Product {
	t.Helper()
	product := &models.Product{Title: title, UnitPrice: price, Inventory: inventory, IsActive: true}
	require.NoError(t, store.Products().Create(product))
	return product
}

func TestGORMProductCreateAndGet(t *testing.T) {
	store := newTestStore(t)

	product := createProduct(t, store, "Kopi Gayo Premium", 2500, 10)
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "kopi-gayo-premium", product.Slug)

	bySlug, err := store.Products().GetBySlug("kopi-gayo-premium")
	require.NoError(t, err)
	assert.Equal(t, product.ID, bySlug.ID)

	byID, err := store.Products().GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kopi Gayo Premium", byID.Title)

	_, err = store.Products().GetByID("missing")
	assert.ErrorIs(t, err, models.ErrProductNotFound)
	_, err = store.Products().GetBySlug("missing")
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}

func TestGORMProductSearch(t *testing.T) {
	store := newTestStore(t)

	category := &models.Category{Name: "Minuman"}
	require.NoError(t, store.Products().CreateCategory(category))

	coffee := createProduct(t, store, "Kopi Gayo", 2500, 10)
	coffee.CategoryID = category.ID
	require.NoError(t, store.Products().Update(coffee))
	createProduct(t, store, "Teh Hijau", 1000, 10)
	hidden := createProduct(t, store, "Kopi Lama", 500, 0)
	hidden.IsActive = false
	require.NoError(t, store.Products().Update(hidden))

	results, total, err := store.Products().Search(repositories.ProductSearch{Query: "Kopi", ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, coffee.ID, results[0].ID)
	assert.Equal(t, "Minuman", results[0].Category.Name)

	results, total, err = store.Products().Search(repositories.ProductSearch{PriceSort: "cheap"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, "Kopi Lama", results[0].Title)

	results, total, err = store.Products().Search(repositories.ProductSearch{PriceSort: "expensive", Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, results, 1)
	assert.Equal(t, "Kopi Lama", results[0].Title)
}

func TestGORMCartLifecycle(t *testing.T) {
	store := newTestStore(t)
	product := createProduct(t, store, "Kopi Gayo", 2500, 10)

	cart, err := store.Carts().GetOrCreateByCustomer("cust-1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	// A second access returns the same cart, not a new one.
	again, err := store.Carts().GetOrCreateByCustomer("cust-1")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)

	require.NoError(t, store.Carts().UpsertItem(&models.CartItem{
		CartID: cart.ID, ProductID: product.ID, Quantity: 2,
	}))
	// Upserting the same product overwrites the quantity.
	require.NoError(t, store.Carts().UpsertItem(&models.CartItem{
		CartID: cart.ID, ProductID: product.ID, Quantity: 5,
	}))

	loaded, err := store.Carts().GetOrCreateByCustomer("cust-1")
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 5, loaded.Items[0].Quantity)
	assert.Equal(t, "Kopi Gayo", loaded.Items[0].Product.Title)

	item, err := store.Carts().GetItem(cart.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)

	require.NoError(t, store.Carts().RemoveItem(cart.ID, product.ID))
	assert.ErrorIs(t, store.Carts().RemoveItem(cart.ID, product.ID), models.ErrCartItemNotFound)

	require.NoError(t, store.Carts().Delete(cart.ID))
	fresh, err := store.Carts().GetOrCreateByCustomer("cust-1")
	require.NoError(t, err)
	assert.NotEqual(t, cart.ID, fresh.ID)
}

func TestGORMOrderLifecycle(t *testing.T) {
	store := newTestStore(t)
	product := createProduct(t, store, "Kopi Gayo", 2500, 10)

	order := &models.Order{
		OrderNumber: "ORD20260831-001",
		CustomerID:  "cust-1",
		Status:      models.StatusAwaitingPayment,
		Items: []models.OrderItem{
			{ProductID: product.ID, Quantity: 2, UnitPrice: 2500},
		},
	}
	require.NoError(t, store.Orders().Create(order))

	loaded, err := store.Orders().GetByID(order.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "Kopi Gayo", loaded.Items[0].Product.Title)
	assert.Equal(t, int64(5000), loaded.TotalPrice())

	item, err := store.Orders().GetItem(loaded.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, item.OrderID)

	require.NoError(t, store.Orders().UpdateStatus(order.ID, models.StatusAwaitingPayment, models.StatusProcessed, ""))
	loaded, err = store.Orders().GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessed, loaded.Status)

	// A writer still holding the old status loses the swap and changes
	// nothing.
	err = store.Orders().UpdateStatus(order.ID, models.StatusAwaitingPayment, models.StatusCancelled, "")
	assert.ErrorIs(t, err, models.ErrOrderStatusConflict)
	loaded, err = store.Orders().GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessed, loaded.Status)

	assert.ErrorIs(t, store.Orders().UpdateStatus("missing", models.StatusAwaitingPayment, models.StatusProcessed, ""), models.ErrOrderNotFound)

	count, err := store.Orders().CountItemsForProduct(product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGORMOrderListFilters(t *testing.T) {
	store := newTestStore(t)
	product := createProduct(t, store, "Kopi Gayo", 2500, 10)

	for i, status := range []models.OrderStatus{models.StatusAwaitingPayment, models.StatusProcessed} {
		order := &models.Order{
			OrderNumber: fmt.Sprintf("ORD20260831-%03d", i+1),
			CustomerID:  "cust-1",
			Status:      status,
			Items:       []models.OrderItem{{ProductID: product.ID, Quantity: 1, UnitPrice: 2500}},
		}
		require.NoError(t, store.Orders().Create(order))
	}

	pending, err := store.Orders().List(repositories.OrderFilter{
		CustomerID: "cust-1",
		Status:     models.StatusAwaitingPayment,
	})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "ORD20260831-001", pending[0].OrderNumber)

	none, err := store.Orders().List(repositories.OrderFilter{CustomerID: "cust-2"})
	require.NoError(t, err)
	assert.Empty(t, none)

	stale, err := store.Orders().ListStalePending(time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, stale, 1)
	require.Len(t, stale[0].Items, 1)

	stale, err = store.Orders().ListStalePending(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, stale)
}

func TestGORMReviewsJoinThroughOrders(t *testing.T) {
	store := newTestStore(t)
	product := createProduct(t, store, "Kopi Gayo", 2500, 10)

	order := &models.Order{
		OrderNumber: "ORD20260831-001",
		CustomerID:  "cust-1",
		Status:      models.StatusCompleted,
		Items:       []models.OrderItem{{ProductID: product.ID, Quantity: 1, UnitPrice: 2500}},
	}
	require.NoError(t, store.Orders().Create(order))
	itemID := order.Items[0].ID

	missing, err := store.Reviews().GetByOrderItem(itemID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	review := &models.Review{OrderItemID: itemID, Rating: 5, Comment: "Mantap"}
	require.NoError(t, store.Reviews().Create(review))

	found, err := store.Reviews().GetByOrderItem(itemID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 5, found.Rating)

	byProduct, err := store.Reviews().ListByProduct(product.ID)
	require.NoError(t, err)
	require.Len(t, byProduct, 1)

	byCustomer, err := store.Reviews().ListByCustomer("cust-1")
	require.NoError(t, err)
	require.Len(t, byCustomer, 1)

	// The unique index rejects a second review of the same item.
	assert.Error(t, store.Reviews().Create(&models.Review{OrderItemID: itemID, Rating: 1}))
}

func TestGORMUserAndCustomer(t *testing.T) {
	store := newTestStore(t)

	user := &models.User{ID: "user-1", Email: "buyer@example.com", FirstName: "Budi", LastName: "Santoso", Password: "hash", IsActive: true}
	require.NoError(t, store.Users().Create(user))
	staff := &models.User{ID: "user-2", Email: "admin@example.com", FirstName: "Ani", LastName: "Wijaya", Password: "hash", IsActive: true, IsStaff: true}
	require.NoError(t, store.Users().Create(staff))

	byEmail, err := store.Users().GetByEmail("buyer@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", byEmail.ID)

	emails, err := store.Users().StaffEmails()
	require.NoError(t, err)
	assert.Equal(t, []string{"admin@example.com"}, emails)

	customer := &models.Customer{UserID: user.ID, Phone: "0812", Address: "Jl. Merdeka 1"}
	require.NoError(t, store.Users().CreateCustomer(customer))

	loaded, err := store.Users().GetCustomerByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, loaded.ID)
	assert.Equal(t, "buyer@example.com", loaded.User.Email)

	loaded.Phone = "0813"
	require.NoError(t, store.Users().UpdateCustomer(loaded))
	reloaded, err := store.Users().GetCustomerByID(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "0813", reloaded.Phone)

	_, err = store.Users().GetCustomerByUserID("missing")
	assert.ErrorIs(t, err, models.ErrCustomerNotFound)
}

func TestGORMStoreTransactionRollsBack(t *testing.T) {
	store := newTestStore(t)
	product := createProduct(t, store, "Kopi Gayo", 2500, 10)

	err := store.Transaction(func(tx repositories.Store) error {
		p, err := tx.Products().GetByID(product.ID)
		if err != nil {
			return err
		}
		p.Inventory = 1
		if err := tx.Products().Update(p); err != nil {
			return err
		}
		return models.ErrEmptyCart
	})
	assert.ErrorIs(t, err, models.ErrEmptyCart)

	// The inventory change was rolled back with the transaction.
	current, err := store.Products().GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, current.Inventory)
}
