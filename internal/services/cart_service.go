package services

import (
	"context"

	"storefront-api/internal/domain"
	"storefront-api/internal/repository"
)

// maxCartItemQuantity bounds a single cart line; larger requests are clamped.
const maxCartItemQuantity = 10

type CartService struct {
	store repository.Store
}

func NewCartService(store repository.Store) *CartService {
	return &CartService{store: store}
}

func (s *CartService) Get(ctx context.Context, userID uint64, role domain.Role) ([]domain.CartItem, error) {
	if role == domain.RoleAdmin {
		return nil, ErrAdminCart
	}
	return s.store.Users().FindCart(ctx, userID)
}

// Replace validates the proposed cart against the live catalog and swaps the
// stored cart wholesale. Unknown or inactive products fail the request.
func (s *CartService) Replace(ctx context.Context, userID uint64, role domain.Role, items []domain.CartItem) ([]domain.CartItem, error) {
	if role == domain.RoleAdmin {
		return nil, ErrAdminCart
	}

	validated := make([]domain.CartItem, 0, len(items))
	ids := make([]uint64, 0, len(items))
	for _, item := range items {
		if item.ProductID == 0 || item.Quantity < 1 {
			continue
		}
		qty := item.Quantity
		if qty > maxCartItemQuantity {
			qty = maxCartItemQuantity
		}
		validated = append(validated, domain.CartItem{ProductID: item.ProductID, Quantity: qty})
		ids = append(ids, item.ProductID)
	}

	products, err := s.store.Products().FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	available := make(map[uint64]*domain.Product, len(products))
	for i := range products {
		if products[i].Status {
			available[products[i].ID] = &products[i]
		}
	}
	for _, item := range validated {
		p, ok := available[item.ProductID]
		if !ok {
			return nil, ProductNotFoundError{ProductID: item.ProductID}
		}
		if item.Quantity > p.Quantity {
			return nil, InsufficientStockError{
				ProductName: p.Name,
				Available:   p.Quantity,
				Requested:   item.Quantity,
			}
		}
	}

	if err := s.store.Users().ReplaceCart(ctx, userID, validated); err != nil {
		return nil, err
	}
	return s.store.Users().FindCart(ctx, userID)
}
