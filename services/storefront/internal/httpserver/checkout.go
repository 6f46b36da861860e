package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/Skotchmaster/tonstore/pkg/logging"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/cart"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/payments"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/service"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/session"
	"github.com/labstack/echo/v4"
)

type CheckoutHTTP struct {
	Svc     *service.CheckoutService
	Catalog *service.CatalogService
	Cart    *service.CartService
	// BaseURL is the externally reachable origin used in processor callbacks.
	BaseURL string
}

func (h *CheckoutHTTP) orderStatusURL(id uint) string {
	return fmt.Sprintf("%s/order_status/%d", h.BaseURL, id)
}

func (h *CheckoutHTTP) CryptoPay(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.single")

	productID := c.Param("id")
	productPath := "/product/" + url.PathEscape(productID)

	if !h.Svc.Enabled() {
		l.Warn("checkout_failed", "status", 303, "reason", "payments unavailable")
		session.AddFlash(c, "danger", "Crypto payments are currently disabled.")
		return c.Redirect(http.StatusSeeOther, productPath)
	}

	if _, err := h.Catalog.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("checkout_failed", "status", 404, "reason", "product not found", "product_id", productID)
			return echo.NewHTTPError(http.StatusNotFound, "Товар не найден")
		}
		l.Error("checkout_failed", "status", 500, "reason", "cannot get product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get product")
	}

	return h.checkout(c, l, service.CheckoutRequest{
		Mode:           service.CheckoutSingle,
		Items:          cart.Cart{productID: 1},
		RedirectURLFor: h.orderStatusURL,
		CancelURL:      h.BaseURL + productPath,
	}, productPath)
}

func (h *CheckoutHTTP) CryptoPayCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.cart")

	if !h.Svc.Enabled() {
		l.Warn("checkout_failed", "status", 303, "reason", "payments unavailable")
		session.AddFlash(c, "danger", "Crypto payments are currently disabled.")
		return c.Redirect(http.StatusSeeOther, "/cart")
	}

	items, err := h.Cart.Items(ctx, session.ID(c))
	if err != nil {
		l.Error("checkout_failed", "status", 500, "reason", "cannot load cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load cart")
	}
	if len(items) == 0 {
		session.AddFlash(c, "info", "Your cart is empty.")
		return c.Redirect(http.StatusSeeOther, "/cart")
	}

	return h.checkout(c, l, service.CheckoutRequest{
		Mode:           service.CheckoutCart,
		Items:          items,
		RedirectURLFor: h.orderStatusURL,
		CancelURL:      h.BaseURL + "/cart",
	}, "/cart")
}

func (h *CheckoutHTTP) checkout(c echo.Context, l *slog.Logger, req service.CheckoutRequest, back string) error {
	res, err := h.Svc.Checkout(c.Request().Context(), req)
	switch {
	case err == nil:
		l.Info("checkout_success", "order_id", res.OrderID, "charge_code", res.ChargeCode)
		return c.Redirect(http.StatusSeeOther, res.HostedURL)
	case errors.Is(err, payments.ErrUnavailable):
		session.AddFlash(c, "danger", "Crypto payments are currently disabled.")
	case errors.Is(err, service.ErrEmptyCart):
		session.AddFlash(c, "danger", "Cannot process a zero-value cart.")
	case errors.Is(err, service.ErrProcessor):
		l.Warn("checkout_failed", "status", 303, "reason", "payment processor error", "order_id", orderID(res), "error", err)
		session.AddFlash(c, "danger", "Error creating payment: "+err.Error())
	default:
		l.Error("checkout_failed", "status", 500, "reason", "cannot create order", "order_id", orderID(res), "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create order")
	}
	return c.Redirect(http.StatusSeeOther, back)
}

func orderID(res *service.CheckoutResult) uint {
	if res == nil {
		return 0
	}
	return res.OrderID
}
