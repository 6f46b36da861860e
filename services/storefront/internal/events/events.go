package events

import (
	"context"
	"time"
)

const TopicOrderEvents = "order_events"

const (
	TypeOrderCreated = "order_created"
	TypeOrderPending = "order_pending"
	TypeOrderPaid    = "order_paid"
	TypeOrderFailed  = "order_failed"
)

type OrderEvent struct {
	Type       string    `json:"type"`
	OrderID    uint      `json:"order_id"`
	Status     string    `json:"status"`
	Price      int64     `json:"price,omitempty"`
	Currency   string    `json:"currency,omitempty"`
	ChargeCode string    `json:"charge_code,omitempty"`
	At         time.Time `json:"at"`
}

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// Noop is used when no brokers are configured.
type Noop struct{}

func (Noop) PublishEvent(context.Context, string, string, any) error { return nil }
