package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/Skotchmaster/tonstore/services/storefront/internal/cart"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/models"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/transport"
)

type CartService struct {
	Store   cart.Store
	Catalog *CatalogService
}

func (s *CartService) Items(ctx context.Context, sessionID string) (cart.Cart, error) {
	return s.Store.Get(ctx, sessionID)
}

func (s *CartService) Add(ctx context.Context, sessionID, productID string) error {
	return s.Store.Add(ctx, sessionID, productID)
}

func (s *CartService) Remove(ctx context.Context, sessionID, productID string) error {
	return s.Store.Remove(ctx, sessionID, productID)
}

func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	return s.Store.Clear(ctx, sessionID)
}

// Count is the header badge: total units, resolved or not.
func (s *CartService) Count(ctx context.Context, sessionID string) (int, error) {
	c, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return c.Count(), nil
}

// View resolves cart lines against the catalog. Lines whose product no longer
// exists are left out of the lines and the total.
func (s *CartService) View(ctx context.Context, sessionID string) (*transport.CartView, error) {
	c, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	ids := sortedIDs(c)
	found, err := s.Catalog.Repo.FindProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve cart: %w", err)
	}

	resolved := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := found[id]; ok {
			resolved = append(resolved, p)
		}
	}
	views, err := s.Catalog.views(ctx, resolved)
	if err != nil {
		return nil, err
	}

	out := &transport.CartView{Lines: make([]transport.CartLine, 0, len(views)), Count: c.Count()}
	for _, v := range views {
		qty := c[v.ProductID]
		line := v.Price * int64(qty)
		out.Lines = append(out.Lines, transport.CartLine{
			Product:        v,
			Quantity:       qty,
			LineTotal:      line,
			FormattedTotal: FormatPrice(line),
		})
		out.Total += line
	}
	out.FormattedTotal = FormatPrice(out.Total)
	return out, nil
}

func sortedIDs(c cart.Cart) []string {
	ids := make([]string, 0, len(c))
	for id, q := range c {
		if q > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
