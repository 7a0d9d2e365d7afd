package repository

import (
	"context"

	"storefront-api/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	ListByProduct(ctx context.Context, productID uint64) ([]domain.Review, error)
}

type ContentRepository interface {
	FindPage(ctx context.Context, slug string) (*domain.CMSPage, error)
	UpsertPage(ctx context.Context, page *domain.CMSPage) error

	ListSlides(ctx context.Context, activeOnly bool) ([]domain.HeroSlide, error)
	CreateSlide(ctx context.Context, slide *domain.HeroSlide) error
	UpdateSlide(ctx context.Context, slide *domain.HeroSlide) (bool, error)
	DeleteSlide(ctx context.Context, id uint64) (bool, error)
}
