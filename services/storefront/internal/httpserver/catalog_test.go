package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Skotchmaster/tonstore/services/storefront/internal/models"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	env := newTestEnv(t, true, hookSecret)

	c, rec := env.request(http.MethodGet, "/", nil)
	require.NoError(t, env.Catalog.Index(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "iPhone 14 Pro")
	assert.Contains(t, rec.Body.String(), "Товаров в каталоге: 3")
}

func TestCatalogPage(t *testing.T) {
	env := newTestEnv(t, true, hookSecret)

	c, rec := env.request(http.MethodGet, "/catalog?search=pro&sort=price_asc", nil)
	require.NoError(t, env.Catalog.Catalog(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Найдено: 1")
	assert.Contains(t, rec.Body.String(), `action="/add_to_cart/A"`)
}

func TestProductPage(t *testing.T) {
	env := newTestEnv(t, true, hookSecret)

	c, rec := env.request(http.MethodGet, "/product/B", nil)
	c.SetParamNames("id")
	c.SetParamValues("B")
	require.NoError(t, env.Catalog.Product(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Цвета: Blue, Red")
	assert.Contains(t, rec.Body.String(), `action="/crypto_pay/B"`)

	c, _ = env.request(http.MethodGet, "/product/nope", nil)
	c.SetParamNames("id")
	c.SetParamValues("nope")
	assert.Equal(t, http.StatusNotFound, httpStatus(t, env.Catalog.Product(c)))
}

func TestProductPage_PaymentsDisabledHidesButton(t *testing.T) {
	env := newTestEnv(t, false, hookSecret)

	c, rec := env.request(http.MethodGet, "/product/B", nil)
	c.SetParamNames("id")
	c.SetParamValues("B")
	require.NoError(t, env.Catalog.Product(c))
	assert.NotContains(t, rec.Body.String(), "/crypto_pay/B")
}

func TestAPIProducts(t *testing.T) {
	env := newTestEnv(t, true, hookSecret)

	c, rec := env.request(http.MethodGet, "/api/products?sort=price_desc&category=iPhone+14", nil)
	require.NoError(t, env.API.Products(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []transport.ProductView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].ProductID)
	assert.Equal(t, "1 000 руб.", got[0].FormattedPrice)
	assert.Equal(t, []string{"Purple"}, got[0].Colors)
	assert.Equal(t, []string{"Blue", "Red"}, got[1].Colors)
}

func TestAPICategoriesAndSearch(t *testing.T) {
	env := newTestEnv(t, true, hookSecret)

	c, rec := env.request(http.MethodGet, "/api/categories", nil)
	require.NoError(t, env.API.Categories(c))
	var cats []transport.CategoryCount
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cats))
	assert.Equal(t, transport.CategoryCount{Name: "iPhone 14", Count: 2}, cats[0])

	c, rec = env.request(http.MethodGet, "/api/search?q=PRO", nil)
	require.NoError(t, env.API.Search(c))
	var res transport.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.EqualValues(t, 1, res.Total)

	c, _ = env.request(http.MethodGet, "/api/search", nil)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, env.API.Search(c)))
}

func TestRoutes_NoCacheHeadersAndHealth(t *testing.T) {
	env := newTestEnv(t, true, hookSecret)

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", rec.Header().Get("Pragma"))
	assert.Equal(t, "0", rec.Header().Get("Expires"))

	rec = httptest.NewRecorder()
	env.E.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPages_EscapeProductIDInPaths(t *testing.T) {
	env := newTestEnv(t, true, hookSecret)
	require.NoError(t, env.Repo.UpsertProduct(context.Background(), &models.Product{ProductID: "x/y#1", Model: "Odd id", Price: 10, Category: "Misc", DisplayOrder: 9}, nil, nil))
	require.NoError(t, env.Store.Add(context.Background(), testSID, "x/y#1"))

	c, rec := env.request(http.MethodGet, "/catalog", nil)
	require.NoError(t, env.Catalog.Catalog(c))
	assert.Contains(t, rec.Body.String(), `action="/add_to_cart/x%2Fy%231"`)
	assert.Contains(t, rec.Body.String(), `href="/product/x%2Fy%231"`)

	c, rec = env.request(http.MethodGet, "/product/x%2Fy%231", nil)
	c.SetParamNames("id")
	c.SetParamValues("x/y#1")
	require.NoError(t, env.Catalog.Product(c))
	assert.Contains(t, rec.Body.String(), `action="/crypto_pay/x%2Fy%231"`)

	c, rec = env.request(http.MethodGet, "/cart", nil)
	require.NoError(t, env.Cart.Cart(c))
	assert.Contains(t, rec.Body.String(), `action="/remove_from_cart/x%2Fy%231"`)
}
