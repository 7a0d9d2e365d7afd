package repository

import (
	"context"

	"storefront-api/internal/domain"
)

// RevenueBucket is one row of the grouped revenue trend aggregation.
type RevenueBucket struct {
	Period            string  `json:"period"`
	TotalRevenue      float64 `json:"totalRevenue"`
	OrderCount        int64   `json:"orderCount"`
	AverageOrderValue float64 `json:"averageOrderValue"`
}

// OrderRepository finders return (nil, nil) when the row does not exist;
// mapping that to a not-found error is the service's job.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	// FindByIDForUpdate locks the order row for the rest of the enclosing
	// transaction so the transition check never runs against a stale status.
	FindByIDForUpdate(ctx context.Context, id uint64) (*domain.Order, error)
	FindByUser(ctx context.Context, userID uint64) ([]domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
	Recent(ctx context.Context, limit int) ([]domain.Order, error)

	SetStatus(ctx context.Context, orderID uint64, status domain.OrderStatus) error
	AppendStatusHistory(ctx context.Context, change *domain.StatusChange) error
	SetTrackingNumber(ctx context.Context, orderID uint64, trackingNumber string) error
	MarkSaleRecorded(ctx context.Context, orderID uint64) error

	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.OrderStatus) (int64, error)
	CountByPaymentStatus(ctx context.Context, status domain.PaymentStatus) (int64, error)
	// PaidRevenue sums totals of paid, non-cancelled orders.
	PaidRevenue(ctx context.Context) (float64, error)
	// RevenueTrends groups revenue by the given MySQL DATE_FORMAT pattern.
	RevenueTrends(ctx context.Context, dateFormat string) ([]RevenueBucket, error)
}
