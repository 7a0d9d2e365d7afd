package mysql

import (
	"context"
	"errors"
	"log"

	"storefront-api/internal/domain"
	"storefront-api/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepo struct {
	db *gorm.DB
}

func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	result := r.db.WithContext(ctx).Create(order)
	if result.Error != nil {
		log.Printf("order create error: %v", result.Error)
		return result.Error
	}
	if order.ID == 0 {
		return errors.New("failed to assign order ID")
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory").
		First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("order FindByID error: %v", err)
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByIDForUpdate(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("order FindByIDForUpdate error: %v", err)
		return nil, err
	}
	// Associations load outside the lock; the locked row carries the fields
	// the transition and sale-recording checks depend on.
	if err := r.db.WithContext(ctx).Model(&o).Association("Items").Find(&o.Items); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		log.Printf("order FindByUser error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) FindAll(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory").
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		log.Printf("order FindAll error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) Recent(ctx context.Context, limit int) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) SetStatus(ctx context.Context, orderID uint64, status domain.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error
}

func (r *orderRepo) AppendStatusHistory(ctx context.Context, change *domain.StatusChange) error {
	return r.db.WithContext(ctx).Create(change).Error
}

func (r *orderRepo) SetTrackingNumber(ctx context.Context, orderID uint64, trackingNumber string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", orderID).
		Update("tracking_number", trackingNumber).Error
}

func (r *orderRepo) MarkSaleRecorded(ctx context.Context, orderID uint64) error {
	return r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", orderID).
		Update("sale_recorded", true).Error
}

func (r *orderRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).Count(&n).Error
	return n, err
}

func (r *orderRepo) CountByStatus(ctx context.Context, status domain.OrderStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("status = ?", status).
		Count(&n).Error
	return n, err
}

func (r *orderRepo) CountByPaymentStatus(ctx context.Context, status domain.PaymentStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("payment_status = ?", status).
		Count(&n).Error
	return n, err
}

func (r *orderRepo) PaidRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	err := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Select("COALESCE(SUM(total), 0)").
		Where("status <> ? AND payment_status = ?", domain.StatusCancelled, domain.PaymentStatusPaid).
		Scan(&revenue).Error
	return revenue, err
}

func (r *orderRepo) RevenueTrends(ctx context.Context, dateFormat string) ([]repository.RevenueBucket, error) {
	var out []repository.RevenueBucket
	err := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Select("DATE_FORMAT(created_at, ?) AS period, SUM(total) AS total_revenue, COUNT(*) AS order_count, AVG(total) AS average_order_value", dateFormat).
		Group("period").
		Order("period").
		Scan(&out).Error
	if err != nil {
		log.Printf("order RevenueTrends error: %v", err)
		return nil, err
	}
	return out, nil
}
