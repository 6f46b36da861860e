package payments

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrUnavailable      = errors.New("payments unavailable")
	ErrMissingSecret    = errors.New("webhook secret not configured")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrInvalidPayload   = errors.New("invalid webhook payload")
)

const (
	EventChargeConfirmed = "charge:confirmed"
	EventChargeFailed    = "charge:failed"
)

type ChargeRequest struct {
	Name        string
	Description string
	Amount      decimal.Decimal
	Currency    string
	Metadata    map[string]string
	RedirectURL string
	CancelURL   string
}

type Charge struct {
	ID        string
	Code      string
	HostedURL string
}

// Event is a verified processor notification. OrderID is 0 when the
// metadata carried no usable order id.
type Event struct {
	ID         string
	Type       string
	ChargeCode string
	OrderID    uint
	Metadata   map[string]any
}

type Gateway interface {
	CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error)
}

type EventParser interface {
	ParseEvent(body []byte, signature string) (*Event, error)
}
