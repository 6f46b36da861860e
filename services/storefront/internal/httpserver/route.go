package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/Skotchmaster/tonstore/pkg/middleware/csrf"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/session"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type Deps struct {
	CatalogHandler  *CatalogHTTP
	CartHandler     *CartHTTP
	CheckoutHandler *CheckoutHTTP
	WebhookHandler  *WebhookHTTP
	OrderHandler    *OrderHTTP
	APIHandler      *APIHTTP

	Sessions *session.Manager
	CSRF     csrf.Config
	DB       *gorm.DB
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return ready(c, d.DB) })

	e.POST("/webhooks/coinbase", d.WebhookHandler.Coinbase, NoCache)

	api := e.Group("/api", NoCache)
	api.GET("/products", d.APIHandler.Products)
	api.GET("/categories", d.APIHandler.Categories)
	api.GET("/search", d.APIHandler.Search)

	site := e.Group("", NoCache, d.Sessions.Middleware(), csrf.Middleware(d.CSRF))
	site.GET("/", d.CatalogHandler.Index)
	site.GET("/catalog", d.CatalogHandler.Catalog)
	site.GET("/product/:id", d.CatalogHandler.Product)

	site.GET("/cart", d.CartHandler.Cart)
	site.POST("/add_to_cart/:id", d.CartHandler.AddToCart)
	site.POST("/remove_from_cart/:id", d.CartHandler.RemoveFromCart)
	site.POST("/clear_cart", d.CartHandler.ClearCart)

	site.POST("/crypto_pay/:id", d.CheckoutHandler.CryptoPay)
	site.POST("/crypto_pay_cart", d.CheckoutHandler.CryptoPayCart)

	site.GET("/order_status/:id", d.OrderHandler.OrderStatus)
}

func ready(c echo.Context, db *gorm.DB) error {
	if db == nil {
		return c.NoContent(http.StatusOK)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return c.NoContent(http.StatusServiceUnavailable)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}
