package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/tonstore/pkg/logging"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/service"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/session"
	"github.com/labstack/echo/v4"
)

type CartHTTP struct {
	Svc  *service.CartService
	View *View
}

func (h *CartHTTP) Cart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.view")

	view, err := h.Svc.View(ctx, session.ID(c))
	if err != nil {
		l.Error("get_cart_failed", "status", 500, "reason", "cannot load cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load cart")
	}
	return h.View.Render(c, "cart.html", "Корзина", view)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	productID := c.Param("id")
	if err := h.Svc.Add(ctx, session.ID(c), productID); err != nil {
		l.Error("add_to_cart_failed", "status", 500, "reason", "cannot update cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update cart")
	}

	l.Info("add_to_cart_success", "product_id", productID)
	session.AddFlash(c, "success", "Товар добавлен в корзину!")
	return c.Redirect(http.StatusSeeOther, backTo(c, "/"))
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	sid := session.ID(c)
	productID := c.Param("id")

	items, err := h.Svc.Items(ctx, sid)
	if err != nil {
		l.Error("remove_from_cart_failed", "status", 500, "reason", "cannot load cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update cart")
	}
	if _, ok := items[productID]; ok {
		if err := h.Svc.Remove(ctx, sid, productID); err != nil {
			l.Error("remove_from_cart_failed", "status", 500, "reason", "cannot update cart", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update cart")
		}
		session.AddFlash(c, "info", "Товар удален из корзины!")
	}

	return c.Redirect(http.StatusSeeOther, "/cart")
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	if err := h.Svc.Clear(ctx, session.ID(c)); err != nil {
		l.Error("clear_cart_failed", "status", 500, "reason", "cannot clear cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot clear cart")
	}

	session.AddFlash(c, "info", "Корзина очищена!")
	return c.Redirect(http.StatusSeeOther, "/cart")
}
