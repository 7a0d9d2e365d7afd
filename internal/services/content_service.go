package services

import (
	"context"

	"storefront-api/internal/domain"
	"storefront-api/internal/repository"
)

type ReviewService struct {
	store repository.Store
}

func NewReviewService(store repository.Store) *ReviewService {
	return &ReviewService{store: store}
}

func (s *ReviewService) Create(ctx context.Context, productID, userID uint64, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, validationf("rating must be between 1 and 5")
	}
	product, err := s.store.Products().FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ProductNotFoundError{ProductID: productID}
	}

	review := &domain.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.store.Reviews().Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) ListByProduct(ctx context.Context, productID uint64) ([]domain.Review, error) {
	return s.store.Reviews().ListByProduct(ctx, productID)
}

type ContentService struct {
	store repository.Store
}

func NewContentService(store repository.Store) *ContentService {
	return &ContentService{store: store}
}

func (s *ContentService) GetPage(ctx context.Context, slug string) (*domain.CMSPage, error) {
	page, err := s.store.Content().FindPage(ctx, slug)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, ErrPageNotFound
	}
	return page, nil
}

func (s *ContentService) SavePage(ctx context.Context, slug, title, content string, updatedBy uint64) (*domain.CMSPage, error) {
	if slug == "" {
		return nil, validationf("page slug is required")
	}
	page := &domain.CMSPage{
		Slug:      slug,
		Title:     title,
		Content:   content,
		UpdatedBy: updatedBy,
	}
	if err := s.store.Content().UpsertPage(ctx, page); err != nil {
		return nil, err
	}
	return s.store.Content().FindPage(ctx, slug)
}

func (s *ContentService) ListSlides(ctx context.Context, activeOnly bool) ([]domain.HeroSlide, error) {
	return s.store.Content().ListSlides(ctx, activeOnly)
}

func (s *ContentService) CreateSlide(ctx context.Context, slide *domain.HeroSlide) (*domain.HeroSlide, error) {
	if slide.Image == "" {
		return nil, validationf("slide image is required")
	}
	if err := s.store.Content().CreateSlide(ctx, slide); err != nil {
		return nil, err
	}
	return slide, nil
}

func (s *ContentService) UpdateSlide(ctx context.Context, slide *domain.HeroSlide) (*domain.HeroSlide, error) {
	found, err := s.store.Content().UpdateSlide(ctx, slide)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrSlideNotFound
	}
	return slide, nil
}

func (s *ContentService) DeleteSlide(ctx context.Context, id uint64) error {
	found, err := s.store.Content().DeleteSlide(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrSlideNotFound
	}
	return nil
}
