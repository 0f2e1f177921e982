package repositories

// Store bundles the per-entity repositories behind a single transactional
// boundary. Transaction runs fn against a store whose repositories all share
// one database transaction; any error returned by fn rolls back every write
// made through that store.
type Store interface {
	Users() UserRepository
	Products() ProductRepository
	Carts() CartRepository
	Orders() OrderRepository
	Reviews() ReviewRepository

	Transaction(fn func(Store) error) error
}
