package repository

import "context"

// Store bundles the per-entity repositories behind one unit of work.
// Atomic runs fn against a transaction-scoped Store: every repository call
// made through it joins the same transaction, committed when fn returns nil
// and rolled back on error or panic.
type Store interface {
	Orders() OrderRepository
	Products() ProductRepository
	Users() UserRepository
	Reviews() ReviewRepository
	Content() ContentRepository

	Atomic(ctx context.Context, fn func(Store) error) error
}
