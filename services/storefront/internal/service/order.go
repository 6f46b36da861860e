package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/tonstore/services/storefront/internal/repo"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/transport"
	"gorm.io/gorm"
)

type OrderService struct {
	Repo *repo.GormRepo
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*transport.OrderView, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	view := &transport.OrderView{
		Order:          *order,
		FormattedPrice: FormatPrice(order.Price),
		Items:          make([]transport.OrderItemView, 0, len(order.Items)),
	}
	for _, it := range order.Items {
		view.Items = append(view.Items, transport.OrderItemView{
			OrderItem:          it,
			FormattedUnitPrice: FormatPrice(it.UnitPrice),
			FormattedLineTotal: FormatPrice(it.LineTotal),
		})
	}
	return view, nil
}
