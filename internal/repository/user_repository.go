package repository

import (
	"context"
	"time"

	"storefront-api/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByResetToken(ctx context.Context, token string) (*domain.User, error)

	SetResetToken(ctx context.Context, id uint64, token string, expires time.Time) error
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error

	FindCart(ctx context.Context, userID uint64) ([]domain.CartItem, error)
	ReplaceCart(ctx context.Context, userID uint64, items []domain.CartItem) error
}
