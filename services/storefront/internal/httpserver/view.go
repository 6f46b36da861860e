package httpserver

import (
	"net/http"
	"net/url"

	"github.com/Skotchmaster/tonstore/pkg/logging"
	"github.com/Skotchmaster/tonstore/pkg/middleware/csrf"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/service"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/session"
	"github.com/labstack/echo/v4"
)

type pageData struct {
	Title           string
	StoreName       string
	CartCount       int
	Flashes         []session.Flash
	CSRFToken       string
	PaymentsEnabled bool
	Data            any
}

// View fills the layout fields every page shares.
type View struct {
	Cart            *service.CartService
	StoreName       string
	PaymentsEnabled bool
}

func (v *View) Render(c echo.Context, name, title string, data any) error {
	ctx := c.Request().Context()

	count, err := v.Cart.Count(ctx, session.ID(c))
	if err != nil {
		logging.FromContext(ctx).Warn("cart_count_failed", "error", err)
	}

	return c.Render(http.StatusOK, name, pageData{
		Title:           title,
		StoreName:       v.StoreName,
		CartCount:       count,
		Flashes:         session.Flashes(c),
		CSRFToken:       csrf.Token(c),
		PaymentsEnabled: v.PaymentsEnabled,
		Data:            data,
	})
}

func NoCache(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
		h.Set("Pragma", "no-cache")
		h.Set("Expires", "0")
		return next(c)
	}
}

// backTo returns the Referer when it points at this host, fallback otherwise.
func backTo(c echo.Context, fallback string) string {
	ref := c.Request().Referer()
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil {
		return fallback
	}
	if u.Host != "" && u.Host != c.Request().Host {
		return fallback
	}
	return u.RequestURI()
}
