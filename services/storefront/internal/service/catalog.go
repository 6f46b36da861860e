package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/tonstore/services/storefront/internal/models"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/repo"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/transport"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/util"
	"gorm.io/gorm"
)

// ProductSearcher is a full-text index returning product ids in rank order.
type ProductSearcher interface {
	Search(ctx context.Context, query string, from, size int) (int64, []string, error)
}

type CatalogService struct {
	Repo *repo.GormRepo
	// Searcher is optional; without it Search falls back to the LIKE filter.
	Searcher ProductSearcher
}

func (s *CatalogService) views(ctx context.Context, items []models.Product) ([]transport.ProductView, error) {
	ids := make([]string, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ProductID)
	}
	colors, memory, err := s.Repo.Variants(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load variants: %w", err)
	}

	out := make([]transport.ProductView, 0, len(items))
	for _, p := range items {
		out = append(out, toView(p, colors[p.ProductID], memory[p.ProductID]))
	}
	return out, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, f transport.ProductFilter) ([]transport.ProductView, error) {
	items, err := s.Repo.ListProducts(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return s.views(ctx, items)
}

func (s *CatalogService) Featured(ctx context.Context, limit int) ([]transport.ProductView, error) {
	items, err := s.Repo.Featured(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("featured products: %w", err)
	}
	return s.views(ctx, items)
}

func (s *CatalogService) Categories(ctx context.Context) ([]transport.CategoryCount, error) {
	return s.Repo.Categories(ctx)
}

func (s *CatalogService) CountProducts(ctx context.Context) (int64, error) {
	return s.Repo.CountProducts(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, productID string) (*transport.ProductView, error) {
	p, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %q: %w", productID, ErrNotFound)
		}
		return nil, err
	}

	views, err := s.views(ctx, []models.Product{*p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Similar returns the first products of the same category in default order.
func (s *CatalogService) Similar(ctx context.Context, p *transport.ProductView, limit int) ([]transport.ProductView, error) {
	items, err := s.Repo.ListProducts(ctx, transport.ProductFilter{Category: p.Category})
	if err != nil {
		return nil, fmt.Errorf("similar products: %w", err)
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return s.views(ctx, items)
}

func (s *CatalogService) Search(ctx context.Context, query string, page, size int) (*transport.SearchResult, error) {
	offset, limit := util.Calculate(page, size)
	if page < 1 {
		page = 1
	}
	res := &transport.SearchResult{Page: page, Size: limit, Items: []transport.ProductView{}}
	if query == "" {
		return res, nil
	}

	if s.Searcher == nil {
		items, err := s.Repo.ListProducts(ctx, transport.ProductFilter{Search: query})
		if err != nil {
			return nil, fmt.Errorf("search products: %w", err)
		}
		res.Total = int64(len(items))
		if offset >= len(items) {
			return res, nil
		}
		end := min(offset+limit, len(items))
		res.Items, err = s.views(ctx, items[offset:end])
		if err != nil {
			return nil, err
		}
		return res, nil
	}

	total, ids, err := s.Searcher.Search(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	found, err := s.Repo.FindProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve search hits: %w", err)
	}

	items := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := found[id]; ok {
			items = append(items, p)
		}
	}
	res.Total = total
	res.Items, err = s.views(ctx, items)
	if err != nil {
		return nil, err
	}
	return res, nil
}
