package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/Skotchmaster/tonstore/pkg/logging"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/payments"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/payments/coinbase"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/service"
	"github.com/labstack/echo/v4"
)

const maxWebhookBody = 1 << 20

type WebhookHTTP struct {
	Parser payments.EventParser
	Svc    *service.NotificationService
}

// Coinbase answers OK for every verified event, matched or not, so the
// processor does not redeliver on application-level misses.
func (h *WebhookHTTP) Coinbase(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "webhook.coinbase")

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		l.Warn("webhook_rejected", "status", 400, "reason", "cannot read body", "error", err)
		return c.String(http.StatusBadRequest, "cannot read body")
	}

	ev, err := h.Parser.ParseEvent(body, c.Request().Header.Get(coinbase.SignatureHeader))
	if err != nil {
		if errors.Is(err, payments.ErrMissingSecret) {
			l.Error("webhook_rejected", "status", 500, "reason", "webhook secret not configured")
			return c.String(http.StatusInternalServerError, "Webhook secret not configured")
		}
		l.Warn("webhook_rejected", "status", 400, "reason", "verification failed", "error", err)
		return c.String(http.StatusBadRequest, err.Error())
	}

	outcome, err := h.Svc.Apply(ctx, ev)
	if err != nil {
		l.Error("webhook_failed", "status", 500, "reason", "cannot update order", "order_id", ev.OrderID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update order")
	}

	l.Info("webhook_processed", "event_type", ev.Type, "order_id", ev.OrderID, "outcome", string(outcome))
	return c.String(http.StatusOK, "OK")
}
