package services

import (
	"context"

	"storefront-api/internal/domain"
	"storefront-api/internal/repository"

	"golang.org/x/sync/errgroup"
)

// periodFormats maps the public period names onto MySQL DATE_FORMAT patterns.
var periodFormats = map[string]string{
	"day":   "%Y-%m-%d",
	"week":  "%Y-%U",
	"month": "%Y-%m",
	"year":  "%Y",
}

type SalesAnalytics struct {
	Period      string                     `json:"period"`
	TopProducts []domain.Product           `json:"topProducts"`
	SalesTrends []repository.RevenueBucket `json:"salesTrends"`
	RecentSales []domain.Order             `json:"recentSales"`
}

type SalesService struct {
	store repository.Store
}

func NewSalesService(store repository.Store) *SalesService {
	return &SalesService{store: store}
}

func (s *SalesService) Analytics(ctx context.Context, period string, limit int) (*SalesAnalytics, error) {
	format, ok := periodFormats[period]
	if !ok {
		period = "month"
		format = periodFormats[period]
	}
	if limit <= 0 {
		limit = 10
	}

	analytics := SalesAnalytics{Period: period}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		top, err := s.store.Products().TopBySales(gctx, limit)
		analytics.TopProducts = top
		return err
	})
	g.Go(func() error {
		trends, err := s.store.Orders().RevenueTrends(gctx, format)
		analytics.SalesTrends = trends
		return err
	})
	g.Go(func() error {
		recent, err := s.store.Orders().Recent(gctx, 5)
		analytics.RecentSales = recent
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &analytics, nil
}
