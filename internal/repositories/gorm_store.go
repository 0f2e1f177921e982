package repositories

import (
	"gorm.io/gorm"
)

// GORMStore is the GORM-backed Store. Transaction scopes every repository to
// one database transaction, so the order-placement steps commit or roll back
// as a unit.
type GORMStore struct {
	db *gorm.DB
}

// NewGORMStore creates a new instance of GORMStore.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

func (s *GORMStore) Users() UserRepository       { return NewGORMUserRepository(s.db) }
func (s *GORMStore) Products() ProductRepository { return NewGORMProductRepository(s.db) }
func (s *GORMStore) Carts() CartRepository       { return NewGORMCartRepository(s.db) }
func (s *GORMStore) Orders() OrderRepository     { return NewGORMOrderRepository(s.db) }
func (s *GORMStore) Reviews() ReviewRepository   { return NewGORMReviewRepository(s.db) }

// Transaction runs fn against a store bound to a database transaction. The
// error fn returns is passed through unchanged so callers can branch on the
// domain error kinds.
func (s *GORMStore) Transaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMStore(tx))
	})
}
