package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-api/internal/domain"
	"storefront-api/internal/repository"

	"github.com/go-redis/redis/v8"
)

// maxFeaturedProducts caps the storefront carousel.
const maxFeaturedProducts = 10

var ErrFeaturedLimit = fmt.Errorf("maximum %d featured products allowed", maxFeaturedProducts)

type ProductService struct {
	store       repository.Store
	redisClient *redis.Client
}

func NewProductService(store repository.Store) *ProductService {
	return &ProductService{store: store}
}

func (s *ProductService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

func (s *ProductService) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product.Name == "" {
		return nil, validationf("product name is required")
	}
	if product.Price < 0 {
		return nil, validationf("price cannot be negative")
	}
	if product.OfferPrice > product.Price {
		return nil, validationf("offer price cannot exceed price")
	}
	if product.SalesCount == 0 && product.Sold > 0 {
		product.SalesCount = product.Sold
	}
	if len(product.Variants) > 0 {
		product.Quantity = product.TotalVariantStock()
	}
	if product.Featured {
		count, err := s.store.Products().CountFeatured(ctx)
		if err != nil {
			return nil, err
		}
		if count >= maxFeaturedProducts {
			return nil, ErrFeaturedLimit
		}
	}
	if err := s.store.Products().Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID is cache-aside: Redis first, catalog on miss, short TTL.
func (s *ProductService) GetByID(ctx context.Context, id uint64) (*domain.Product, error) {
	cacheKey := productCacheKey(id)

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var p domain.Product
			if err := json.Unmarshal([]byte(cached), &p); err == nil {
				return &p, nil
			}
		}
	}

	p, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ProductNotFoundError{ProductID: id}
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(p); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, time.Minute)
		}
	}

	return p, nil
}

func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	return s.store.Products().FindAll(ctx, filter)
}

func (s *ProductService) Featured(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 8
	}
	return s.store.Products().Featured(ctx, limit)
}

func (s *ProductService) Update(ctx context.Context, id uint64, upd domain.ProductUpdate) (*domain.Product, error) {
	if upd.Price != nil && *upd.Price < 0 {
		return nil, validationf("price cannot be negative")
	}
	if upd.Quantity != nil && *upd.Quantity < 0 {
		return nil, validationf("quantity cannot be negative")
	}
	if upd.Featured != nil && *upd.Featured {
		count, err := s.store.Products().CountFeatured(ctx)
		if err != nil {
			return nil, err
		}
		if count >= maxFeaturedProducts {
			return nil, ErrFeaturedLimit
		}
	}

	p, err := s.store.Products().Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ProductNotFoundError{ProductID: id}
	}

	s.invalidate(ctx, id)
	return p, nil
}

func (s *ProductService) ToggleFeatured(ctx context.Context, id uint64) (*domain.Product, error) {
	p, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ProductNotFoundError{ProductID: id}
	}

	if !p.Featured {
		count, err := s.store.Products().CountFeatured(ctx)
		if err != nil {
			return nil, err
		}
		if count >= maxFeaturedProducts {
			return nil, ErrFeaturedLimit
		}
	}

	featured := !p.Featured
	updated, err := s.store.Products().Update(ctx, id, domain.ProductUpdate{Featured: &featured})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id uint64) error {
	found, err := s.store.Products().Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ProductNotFoundError{ProductID: id}
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *ProductService) invalidate(ctx context.Context, id uint64) {
	if s.redisClient != nil {
		s.redisClient.Del(ctx, productCacheKey(id))
	}
}

func productCacheKey(id uint64) string {
	return fmt.Sprintf("product:%d", id)
}
