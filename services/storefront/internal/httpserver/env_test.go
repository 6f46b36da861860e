package httpserver

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Skotchmaster/tonstore/pkg/db"
	"github.com/Skotchmaster/tonstore/pkg/middleware/csrf"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/cart"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/events"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/models"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/payments"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/payments/coinbase"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/repo"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/service"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testSID    = "00000000-0000-4000-8000-000000000001"
	hookSecret = "whsec"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateCharge(ctx context.Context, req payments.ChargeRequest) (*payments.Charge, error) {
	args := m.Called(ctx, req)
	ch, _ := args.Get(0).(*payments.Charge)
	return ch, args.Error(1)
}

type testEnv struct {
	E     *echo.Echo
	Repo  *repo.GormRepo
	Store *cart.MemoryStore
	GW    *mockGateway

	Catalog  *CatalogHTTP
	Cart     *CartHTTP
	Checkout *CheckoutHTTP
	Webhook  *WebhookHTTP
	Order    *OrderHTTP
	API      *APIHTTP
}

func newTestEnv(t *testing.T, paymentsEnabled bool, secret string) *testEnv {
	t.Helper()

	gdb, err := db.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	require.NoError(t, repo.Migrate(gdb))

	r := &repo.GormRepo{DB: gdb}
	ctx := context.Background()
	require.NoError(t, r.UpsertProduct(ctx, &models.Product{ProductID: "A", Model: "iPhone 14 Pro", Price: 1000, Category: "iPhone 14", CurrentColor: "Purple", DisplayOrder: 1, IsFeatured: true}, nil, nil))
	require.NoError(t, r.UpsertProduct(ctx, &models.Product{ProductID: "B", Model: "iPhone 14", Price: 500, Category: "iPhone 14", CurrentColor: "Blue", DisplayOrder: 2}, []string{"Blue", "Red"}, nil))
	require.NoError(t, r.UpsertProduct(ctx, &models.Product{ProductID: "F", Model: "Free sticker", Price: 0, Category: "Misc", DisplayOrder: 3}, nil, nil))

	store := cart.NewMemoryStore()
	gw := &mockGateway{}

	catalogSvc := &service.CatalogService{Repo: r}
	cartSvc := &service.CartService{Store: store, Catalog: catalogSvc}
	checkoutSvc := &service.CheckoutService{Repo: r, Events: events.Noop{}, StoreName: "TonStore", Currency: "RUB", Timeout: time.Second}
	if paymentsEnabled {
		checkoutSvc.Gateway = gw
	}

	view := &View{Cart: cartSvc, StoreName: "TonStore", PaymentsEnabled: paymentsEnabled}

	e := echo.New()
	renderer, err := NewRenderer()
	require.NoError(t, err)
	e.Renderer = renderer

	env := &testEnv{
		E:        e,
		Repo:     r,
		Store:    store,
		GW:       gw,
		Catalog:  &CatalogHTTP{Svc: catalogSvc, View: view},
		Cart:     &CartHTTP{Svc: cartSvc, View: view},
		Checkout: &CheckoutHTTP{Svc: checkoutSvc, Catalog: catalogSvc, Cart: cartSvc, BaseURL: "http://shop.test"},
		Webhook:  &WebhookHTTP{Parser: coinbase.NewWebhook(secret), Svc: &service.NotificationService{Repo: r, Events: events.Noop{}}},
		Order:    &OrderHTTP{Svc: &service.OrderService{Repo: r}, View: view},
		API:      &APIHTTP{Catalog: catalogSvc},
	}

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.SkipPrefixes = []string{"/webhooks/"}
	Register(e, &Deps{
		CatalogHandler:  env.Catalog,
		CartHandler:     env.Cart,
		CheckoutHandler: env.Checkout,
		WebhookHandler:  env.Webhook,
		OrderHandler:    env.Order,
		APIHandler:      env.API,
		Sessions:        session.NewManager([]byte("session-secret"), false, time.Hour),
		CSRF:            csrfCfg,
		DB:              gdb,
	})
	return env
}

// request builds a context for calling a handler directly, with a fixed session id.
func (env *testEnv) request(method, target string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	session.WithID(c, testSID)
	return c, rec
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T", err)
	return he.Code
}
