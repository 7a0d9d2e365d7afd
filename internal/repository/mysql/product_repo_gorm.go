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

type productRepo struct {
	db *gorm.DB
}

func (r *productRepo) Create(ctx context.Context, product *domain.Product) error {
	result := r.db.WithContext(ctx).Create(product)
	if result.Error != nil {
		log.Printf("product create error: %v", result.Error)
		return result.Error
	}
	return nil
}

func (r *productRepo) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("product FindByID error: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindByIDForUpdate(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("product FindByIDForUpdate error: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error) {
	var out []domain.Product
	if len(ids) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *productRepo) FindAll(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	q := r.db.WithContext(ctx).Preload("Variants")
	if filter.FeaturedOnly {
		q = q.Where("featured = ?", true)
	}
	if filter.ActiveOnly {
		q = q.Where("status = ?", true)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	var out []domain.Product
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		log.Printf("product FindAll error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *productRepo) Featured(ctx context.Context, limit int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.WithContext(ctx).
		Where("featured = ? AND status = ?", true, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *productRepo) CountFeatured(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("featured = ?", true).
		Count(&n).Error
	return n, err
}

func (r *productRepo) Update(ctx context.Context, id uint64, upd domain.ProductUpdate) (*domain.Product, error) {
	var updated *domain.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error; err != nil {
			return err
		}

		fields := map[string]any{}
		if upd.Name != nil {
			fields["name"] = *upd.Name
		}
		if upd.Category != nil {
			fields["category"] = *upd.Category
		}
		if upd.Description != nil {
			fields["description"] = *upd.Description
		}
		if upd.Price != nil {
			fields["price"] = *upd.Price
		}
		if upd.OfferPrice != nil {
			fields["offer_price"] = *upd.OfferPrice
		}
		if upd.Quantity != nil {
			fields["quantity"] = *upd.Quantity
		}
		if upd.Featured != nil {
			fields["featured"] = *upd.Featured
		}
		if upd.Status != nil {
			fields["status"] = *upd.Status
		}
		if upd.Image != nil {
			fields["image"] = *upd.Image
		}
		if upd.Images != nil {
			fields["images"] = *upd.Images
		}
		if upd.Tags != nil {
			fields["tags"] = *upd.Tags
		}
		if upd.Weight != nil {
			fields["weight"] = *upd.Weight
		}
		if upd.Shipping != nil {
			fields["shipping"] = upd.Shipping
		}

		if upd.Variants != nil {
			if err := tx.Where("product_id = ?", id).Delete(&domain.Variant{}).Error; err != nil {
				return err
			}
			variants := *upd.Variants
			var stockSum int64
			for i := range variants {
				variants[i].ID = 0
				variants[i].ProductID = id
				stockSum += variants[i].Stock
			}
			if len(variants) > 0 {
				if err := tx.Create(&variants).Error; err != nil {
					return err
				}
			}
			// Variant edits always recompute the product quantity.
			fields["quantity"] = stockSum
		}

		if len(fields) > 0 {
			if err := tx.Model(&p).Updates(fields).Error; err != nil {
				return err
			}
		}

		if err := tx.Preload("Variants").First(&p, id).Error; err != nil {
			return err
		}
		updated = &p
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("product update error: %v", err)
		return nil, err
	}
	return updated, nil
}

func (r *productRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Product{}, id)
	if result.Error != nil {
		log.Printf("product delete error: %v", result.Error)
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *productRepo) AdjustSaleCounters(ctx context.Context, id uint64, qty int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"quantity":    gorm.Expr("quantity - ?", qty),
			"sold":        gorm.Expr("sold + ?", qty),
			"sales_count": gorm.Expr("sales_count + ?", qty),
		}).Error
}

func (r *productRepo) AppendSalesRecord(ctx context.Context, record *domain.SalesRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *productRepo) TopBySales(ctx context.Context, limit int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.WithContext(ctx).
		Order("sales_count DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
