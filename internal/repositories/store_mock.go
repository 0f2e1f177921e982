package repositories

import (
	"maps"
	"sync"

	"lapak/internal/models"
)

// MockStore is an in-memory implementation of Store used in tests and local
// development. The repository accessors return lightweight views over the
// shared state.
//
// Transaction takes a snapshot of the whole state before running fn and
// restores it when fn fails, giving the same all-or-nothing behavior as a
// database transaction. Transactions are serialized by a dedicated mutex, so
// concurrent checkouts cannot interleave their reads and writes.
type MockStore struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	users      map[string]models.User
	customers  map[string]models.Customer
	categories map[string]models.Category
	products   map[string]models.Product
	featured   map[string]models.FeaturedProduct
	carts      map[string]models.Cart     // stored without Items
	cartItems  map[string]models.CartItem // stored without Product
	orders     map[string]models.Order    // stored without Items
	orderItems map[string]models.OrderItem
	reviews    map[string]models.Review
	counters   map[string]int // day -> last order sequence
}

// NewMockStore creates a new empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		users:      make(map[string]models.User),
		customers:  make(map[string]models.Customer),
		categories: make(map[string]models.Category),
		products:   make(map[string]models.Product),
		featured:   make(map[string]models.FeaturedProduct),
		carts:      make(map[string]models.Cart),
		cartItems:  make(map[string]models.CartItem),
		orders:     make(map[string]models.Order),
		orderItems: make(map[string]models.OrderItem),
		reviews:    make(map[string]models.Review),
		counters:   make(map[string]int),
	}
}

func (s *MockStore) Users() UserRepository       { return &mockUserRepo{s} }
func (s *MockStore) Products() ProductRepository { return &mockProductRepo{s} }
func (s *MockStore) Carts() CartRepository       { return &mockCartRepo{s} }
func (s *MockStore) Orders() OrderRepository     { return &mockOrderRepo{s} }
func (s *MockStore) Reviews() ReviewRepository   { return &mockReviewRepo{s} }

// Transaction runs fn, rolling the whole state back when fn returns an error.
func (s *MockStore) Transaction(fn func(Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snapshot := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

type mockSnapshot struct {
	users      map[string]models.User
	customers  map[string]models.Customer
	categories map[string]models.Category
	products   map[string]models.Product
	featured   map[string]models.FeaturedProduct
	carts      map[string]models.Cart
	cartItems  map[string]models.CartItem
	orders     map[string]models.Order
	orderItems map[string]models.OrderItem
	reviews    map[string]models.Review
	counters   map[string]int
}

// snapshot copies every map. The stored structs hold no slices or pointers
// (associations are assembled on read), so a map clone is a deep copy.
func (s *MockStore) snapshot() mockSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return mockSnapshot{
		users:      maps.Clone(s.users),
		customers:  maps.Clone(s.customers),
		categories: maps.Clone(s.categories),
		products:   maps.Clone(s.products),
		featured:   maps.Clone(s.featured),
		carts:      maps.Clone(s.carts),
		cartItems:  maps.Clone(s.cartItems),
		orders:     maps.Clone(s.orders),
		orderItems: maps.Clone(s.orderItems),
		reviews:    maps.Clone(s.reviews),
		counters:   maps.Clone(s.counters),
	}
}

func (s *MockStore) restore(snap mockSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = snap.users
	s.customers = snap.customers
	s.categories = snap.categories
	s.products = snap.products
	s.featured = snap.featured
	s.carts = snap.carts
	s.cartItems = snap.cartItems
	s.orders = snap.orders
	s.orderItems = snap.orderItems
	s.reviews = snap.reviews
	s.counters = snap.counters
}
