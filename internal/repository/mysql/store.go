package mysql

import (
	"context"

	"storefront-api/internal/repository"

	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Orders() repository.OrderRepository     { return &orderRepo{db: s.db} }
func (s *Store) Products() repository.ProductRepository { return &productRepo{db: s.db} }
func (s *Store) Users() repository.UserRepository       { return &userRepo{db: s.db} }
func (s *Store) Reviews() repository.ReviewRepository   { return &reviewRepo{db: s.db} }
func (s *Store) Content() repository.ContentRepository  { return &contentRepo{db: s.db} }

// Atomic runs fn inside one database transaction. The Store handed to fn is
// bound to that transaction, so every repository call through it commits or
// rolls back as a unit. gorm rolls back on error return and on panic.
func (s *Store) Atomic(ctx context.Context, fn func(repository.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

var _ repository.Store = (*Store)(nil)
