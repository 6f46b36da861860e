package coinbase

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Skotchmaster/tonstore/services/storefront/internal/payments"
)

const SignatureHeader = "X-CC-Webhook-Signature"

type Webhook struct {
	secret []byte
}

func NewWebhook(secret string) *Webhook {
	return &Webhook{secret: []byte(secret)}
}

type webhookPayload struct {
	Event *struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data struct {
			Code     string                     `json:"code"`
			Metadata map[string]json.RawMessage `json:"metadata"`
		} `json:"data"`
	} `json:"event"`
}

// Sign returns the hex HMAC-SHA256 of body, as sent in SignatureHeader.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// ParseEvent verifies the signature over the raw body before decoding it.
func (w *Webhook) ParseEvent(body []byte, signature string) (*payments.Event, error) {
	if len(w.secret) == 0 {
		return nil, payments.ErrMissingSecret
	}

	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil || len(got) == 0 {
		return nil, payments.ErrInvalidSignature
	}
	mac := hmac.New(sha256.New, w.secret)
	mac.Write(body)
	if !hmac.Equal(got, mac.Sum(nil)) {
		return nil, payments.ErrInvalidSignature
	}

	var p webhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", payments.ErrInvalidPayload, err)
	}
	if p.Event == nil || p.Event.Type == "" {
		return nil, fmt.Errorf("%w: missing event", payments.ErrInvalidPayload)
	}

	ev := &payments.Event{
		ID:         p.Event.ID,
		Type:       p.Event.Type,
		ChargeCode: p.Event.Data.Code,
		Metadata:   make(map[string]any, len(p.Event.Data.Metadata)),
	}
	for k, raw := range p.Event.Data.Metadata {
		var v any
		if json.Unmarshal(raw, &v) == nil {
			ev.Metadata[k] = v
		}
	}
	if raw, ok := p.Event.Data.Metadata["order_id"]; ok {
		ev.OrderID = parseOrderID(raw)
	}

	return ev, nil
}

// parseOrderID accepts a JSON number or a numeric string. Values outside the
// signed 64-bit range cannot name a row and are treated as absent.
func parseOrderID(raw json.RawMessage) uint {
	s := strings.TrimSpace(string(raw))
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	n, err := strconv.ParseUint(s, 10, 63)
	if err != nil {
		return 0
	}
	return uint(n)
}
