package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/tonstore/services/storefront/internal/events"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/models"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/payments"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/repo"
)

type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeIgnored Outcome = "ignored"  // unknown event type or no order id
	OutcomeNoMatch Outcome = "no_match" // order id not in the ledger
)

type NotificationService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

// Apply writes the terminal status for a verified event. The write is by id
// only, so a redelivered event rewrites the same value.
func (s *NotificationService) Apply(ctx context.Context, ev *payments.Event) (Outcome, error) {
	var (
		status models.OrderStatus
		typ    string
	)
	switch ev.Type {
	case payments.EventChargeConfirmed:
		status, typ = models.OrderStatusPaid, events.TypeOrderPaid
	case payments.EventChargeFailed:
		status, typ = models.OrderStatusFailed, events.TypeOrderFailed
	default:
		return OutcomeIgnored, nil
	}

	if ev.OrderID == 0 {
		return OutcomeIgnored, nil
	}

	n, err := s.Repo.SetStatus(ctx, ev.OrderID, status)
	if err != nil {
		return "", fmt.Errorf("set order %d status: %w", ev.OrderID, err)
	}
	if n == 0 {
		return OutcomeNoMatch, nil
	}

	order := &models.Order{ID: ev.OrderID, Status: status}
	if ev.ChargeCode != "" {
		code := ev.ChargeCode
		order.ChargeCode = &code
	}
	publishOrderEvent(ctx, s.Events, typ, order)
	return OutcomeApplied, nil
}
