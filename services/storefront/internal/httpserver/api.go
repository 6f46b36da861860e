package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/tonstore/pkg/logging"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/service"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/util"
	"github.com/labstack/echo/v4"
)

type APIHTTP struct {
	Catalog *service.CatalogService
}

func (h *APIHTTP) Products(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "api.products")

	products, err := h.Catalog.ListProducts(ctx, filterFrom(c))
	if err != nil {
		l.Error("get_products_error", "status", 500, "reason", "cannot list products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}
	return c.JSON(http.StatusOK, products)
}

func (h *APIHTTP) Categories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "api.categories")

	categories, err := h.Catalog.Categories(ctx)
	if err != nil {
		l.Error("get_categories_error", "status", 500, "reason", "cannot load categories", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load categories")
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *APIHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "api.search")

	q := c.QueryParam("q")
	if q == "" {
		l.Warn("search_error", "status", 400, "reason", "empty query")
		return echo.NewHTTPError(http.StatusBadRequest, "query error")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	res, err := h.Catalog.Search(ctx, q, page, size)
	if err != nil {
		l.Error("search_error", "status", 500, "reason", "search failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}
	return c.JSON(http.StatusOK, res)
}
