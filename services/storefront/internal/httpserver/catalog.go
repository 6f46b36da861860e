package httpserver

import (
	"errors"
	"net/http"

	"github.com/Skotchmaster/tonstore/pkg/logging"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/service"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/transport"
	"github.com/labstack/echo/v4"
)

const (
	featuredLimit = 6
	similarLimit  = 4
)

type CatalogHTTP struct {
	Svc  *service.CatalogService
	View *View
}

type indexPage struct {
	Featured      []transport.ProductView
	Categories    []transport.CategoryCount
	TotalProducts int64
}

type catalogPage struct {
	Products        []transport.ProductView
	Categories      []transport.CategoryCount
	CurrentCategory string
	CurrentSort     string
	SearchQuery     string
	TotalProducts   int
}

type productPage struct {
	Product *transport.ProductView
	Similar []transport.ProductView
}

func filterFrom(c echo.Context) transport.ProductFilter {
	f := transport.ProductFilter{
		Category: c.QueryParam("category"),
		Sort:     c.QueryParam("sort"),
		Search:   c.QueryParam("search"),
	}
	if f.Category == "" {
		f.Category = "all"
	}
	return f
}

func (h *CatalogHTTP) Index(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.index")

	featured, err := h.Svc.Featured(ctx, featuredLimit)
	if err != nil {
		l.Error("index_failed", "status", 500, "reason", "cannot load featured products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load products")
	}
	categories, err := h.Svc.Categories(ctx)
	if err != nil {
		l.Error("index_failed", "status", 500, "reason", "cannot load categories", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load categories")
	}
	total, err := h.Svc.CountProducts(ctx)
	if err != nil {
		l.Error("index_failed", "status", 500, "reason", "cannot count products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load products")
	}

	return h.View.Render(c, "index.html", h.View.StoreName, indexPage{
		Featured:      featured,
		Categories:    categories,
		TotalProducts: total,
	})
}

func (h *CatalogHTTP) Catalog(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.catalog")

	f := filterFrom(c)
	products, err := h.Svc.ListProducts(ctx, f)
	if err != nil {
		l.Error("catalog_failed", "status", 500, "reason", "cannot list products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load products")
	}
	categories, err := h.Svc.Categories(ctx)
	if err != nil {
		l.Error("catalog_failed", "status", 500, "reason", "cannot load categories", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load categories")
	}

	return h.View.Render(c, "catalog.html", "Каталог", catalogPage{
		Products:        products,
		Categories:      categories,
		CurrentCategory: f.Category,
		CurrentSort:     f.Sort,
		SearchQuery:     f.Search,
		TotalProducts:   len(products),
	})
}

func (h *CatalogHTTP) Product(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.product")

	product, err := h.Svc.GetProduct(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_product_failed", "status", 404, "reason", "product not found", "product_id", c.Param("id"))
			return echo.NewHTTPError(http.StatusNotFound, "Товар не найден")
		}
		l.Error("get_product_failed", "status", 500, "reason", "cannot get product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get product")
	}

	similar, err := h.Svc.Similar(ctx, product, similarLimit)
	if err != nil {
		l.Error("get_product_failed", "status", 500, "reason", "cannot load similar products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get product")
	}

	return h.View.Render(c, "product.html", product.Model, productPage{Product: product, Similar: similar})
}
