package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Skotchmaster/tonstore/pkg/logging"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/service"
	"github.com/labstack/echo/v4"
)

type OrderHTTP struct {
	Svc  *service.OrderService
	View *View
}

func (h *OrderHTTP) OrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.status")

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		l.Warn("get_order_failed", "status", 404, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "Order not found")
	}

	order, err := h.Svc.GetOrder(ctx, uint(id))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_order_failed", "status", 404, "reason", "order not found", "order_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "Order not found")
		}
		l.Error("get_order_failed", "status", 500, "reason", "cannot get order", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get order")
	}

	return h.View.Render(c, "order_status.html", "Заказ", order)
}
