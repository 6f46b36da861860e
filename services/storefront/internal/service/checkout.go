package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/tonstore/pkg/logging"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/cart"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/events"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/models"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/payments"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/repo"
	"github.com/shopspring/decimal"
)

type CheckoutMode int

const (
	CheckoutSingle CheckoutMode = iota
	CheckoutCart
)

type CheckoutRequest struct {
	Mode  CheckoutMode
	Items cart.Cart

	// RedirectURLFor builds the order status URL once the id is known.
	RedirectURLFor func(orderID uint) string
	CancelURL      string
}

type CheckoutResult struct {
	OrderID    uint
	ChargeCode string
	HostedURL  string
}

type CheckoutService struct {
	Repo      *repo.GormRepo
	Gateway   payments.Gateway // nil when payments are not configured
	Events    events.Publisher
	StoreName string
	Currency  string
	Timeout   time.Duration
}

func (s *CheckoutService) Enabled() bool {
	return s.Gateway != nil
}

// Checkout creates one order for the resolvable items and opens a hosted
// charge for it. On processor failure the order stays new and the returned
// result still carries its id.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if s.Gateway == nil {
		return nil, payments.ErrUnavailable
	}

	ids := sortedIDs(req.Items)
	found, err := s.Repo.FindProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}

	var total int64
	items := make([]models.OrderItem, 0, len(ids))
	for _, id := range ids {
		p, ok := found[id]
		if !ok {
			continue
		}
		qty := req.Items[id]
		line := p.Price * int64(qty)
		total += line
		items = append(items, models.OrderItem{
			ProductID: p.ProductID,
			Model:     p.Model,
			Quantity:  qty,
			UnitPrice: p.Price,
			LineTotal: line,
		})
	}
	if total == 0 {
		return nil, ErrEmptyCart
	}

	order, err := s.Repo.CreateOrder(ctx, &models.Order{
		ProductID: joinProductIDs(items),
		Price:     total,
		Currency:  s.currency(),
		Status:    models.OrderStatusNew,
		Items:     items,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	s.publish(ctx, events.TypeOrderCreated, order)

	result := &CheckoutResult{OrderID: order.ID}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout())
	charge, err := s.Gateway.CreateCharge(callCtx, s.chargeRequest(req, order))
	cancel()
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrProcessor, err)
	}

	attached, err := s.Repo.AttachCharge(ctx, order.ID, charge.Code)
	if err != nil {
		return result, fmt.Errorf("attach charge: %w", err)
	}
	if !attached {
		return result, fmt.Errorf("attach charge: order %d is no longer new", order.ID)
	}
	code := charge.Code
	order.ChargeCode = &code
	order.Status = models.OrderStatusPending
	s.publish(ctx, events.TypeOrderPending, order)

	result.ChargeCode = charge.Code
	result.HostedURL = charge.HostedURL
	return result, nil
}

func (s *CheckoutService) chargeRequest(req CheckoutRequest, order *models.Order) payments.ChargeRequest {
	cr := payments.ChargeRequest{
		Amount:    decimal.NewFromInt(order.Price),
		Currency:  order.Currency,
		Metadata:  map[string]string{"order_id": strconv.FormatUint(uint64(order.ID), 10)},
		CancelURL: req.CancelURL,
	}
	if req.RedirectURLFor != nil {
		cr.RedirectURL = req.RedirectURLFor(order.ID)
	}

	if req.Mode == CheckoutSingle && len(order.Items) == 1 {
		cr.Name = order.Items[0].Model
		cr.Description = fmt.Sprintf("Order #%d", order.ID)
		cr.Metadata["product_id"] = order.Items[0].ProductID
		return cr
	}

	descs := make([]string, 0, len(order.Items))
	for _, it := range order.Items {
		descs = append(descs, fmt.Sprintf("%s (x%d)", it.Model, it.Quantity))
	}
	cr.Name = fmt.Sprintf("Your Order #%d from %s", order.ID, s.storeName())
	cr.Description = strings.Join(descs, ", ")
	if raw, err := json.Marshal(req.Items); err == nil {
		cr.Metadata["cart_items"] = string(raw)
	}
	return cr
}

func joinProductIDs(items []models.OrderItem) string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	return strings.Join(ids, ",")
}

func (s *CheckoutService) publish(ctx context.Context, typ string, order *models.Order) {
	publishOrderEvent(ctx, s.Events, typ, order)
}

func (s *CheckoutService) currency() string {
	if s.Currency == "" {
		return "RUB"
	}
	return s.Currency
}

func (s *CheckoutService) storeName() string {
	if s.StoreName == "" {
		return "TonStore"
	}
	return s.StoreName
}

func (s *CheckoutService) timeout() time.Duration {
	if s.Timeout <= 0 {
		return 10 * time.Second
	}
	return s.Timeout
}

// publishOrderEvent never fails the caller; a broker outage only costs the event.
func publishOrderEvent(ctx context.Context, p events.Publisher, typ string, order *models.Order) {
	if p == nil {
		return
	}
	ev := events.OrderEvent{
		Type:     typ,
		OrderID:  order.ID,
		Status:   string(order.Status),
		Price:    order.Price,
		Currency: order.Currency,
		At:       time.Now().UTC(),
	}
	if order.ChargeCode != nil {
		ev.ChargeCode = *order.ChargeCode
	}

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(pctx, events.TopicOrderEvents, strconv.FormatUint(uint64(order.ID), 10), ev); err != nil {
		logging.FromContext(ctx).Error("order_event_publish_failed", "type", typ, "order_id", order.ID, "error", err)
	}
}
