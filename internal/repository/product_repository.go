package repository

import (
	"context"

	"storefront-api/internal/domain"
)

type ProductFilter struct {
	FeaturedOnly bool
	ActiveOnly   bool
	Category     string
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	// FindByIDForUpdate locks the product row so two concurrent reservations
	// cannot both read the same stock value.
	FindByIDForUpdate(ctx context.Context, id uint64) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error)
	FindAll(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	Featured(ctx context.Context, limit int) ([]domain.Product, error)
	CountFeatured(ctx context.Context) (int64, error)

	// Update applies only the non-nil fields of the allow-listed patch.
	// When variants are replaced, quantity is recomputed as their stock sum.
	Update(ctx context.Context, id uint64, upd domain.ProductUpdate) (*domain.Product, error)
	Delete(ctx context.Context, id uint64) (bool, error)

	// AdjustSaleCounters applies the stock/sales mutation of a sale of qty
	// units: quantity -= qty, sold += qty, salesCount += qty.
	AdjustSaleCounters(ctx context.Context, id uint64, qty int64) error
	AppendSalesRecord(ctx context.Context, record *domain.SalesRecord) error
	TopBySales(ctx context.Context, limit int) ([]domain.Product, error)
}
