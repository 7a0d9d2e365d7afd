package mysql

import (
	"context"
	"errors"
	"log"

	"storefront-api/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type reviewRepo struct {
	db *gorm.DB
}

func (r *reviewRepo) Create(ctx context.Context, review *domain.Review) error {
	result := r.db.WithContext(ctx).Create(review)
	if result.Error != nil {
		log.Printf("review create error: %v", result.Error)
		return result.Error
	}
	return nil
}

func (r *reviewRepo) ListByProduct(ctx context.Context, productID uint64) ([]domain.Review, error) {
	var out []domain.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

type contentRepo struct {
	db *gorm.DB
}

func (r *contentRepo) FindPage(ctx context.Context, slug string) (*domain.CMSPage, error) {
	var p domain.CMSPage
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *contentRepo) UpsertPage(ctx context.Context, page *domain.CMSPage) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "content", "updated_by"}),
		}).
		Create(page).Error
}

func (r *contentRepo) ListSlides(ctx context.Context, activeOnly bool) ([]domain.HeroSlide, error) {
	q := r.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var out []domain.HeroSlide
	if err := q.Order("sort_order ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *contentRepo) CreateSlide(ctx context.Context, slide *domain.HeroSlide) error {
	return r.db.WithContext(ctx).Create(slide).Error
}

func (r *contentRepo) UpdateSlide(ctx context.Context, slide *domain.HeroSlide) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.HeroSlide{}).
		Where("id = ?", slide.ID).
		Updates(map[string]any{
			"title":      slide.Title,
			"subtitle":   slide.Subtitle,
			"image":      slide.Image,
			"link":       slide.Link,
			"sort_order": slide.SortOrder,
			"active":     slide.Active,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *contentRepo) DeleteSlide(ctx context.Context, id uint64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.HeroSlide{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
