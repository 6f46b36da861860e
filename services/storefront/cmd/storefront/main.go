package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/tonstore/pkg/config"
	pkgdb "github.com/Skotchmaster/tonstore/pkg/db"
	"github.com/Skotchmaster/tonstore/pkg/logging"
	"github.com/Skotchmaster/tonstore/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/tonstore/pkg/middleware/logging"

	storecfg "github.com/Skotchmaster/tonstore/services/storefront/internal/config"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/cart"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/events"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/httpserver"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/payments"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/payments/coinbase"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/repo"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/search"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/service"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/session"
)

func main() {
	config.LoadDotEnv("services/storefront/.env", ".env")

	cfg := storecfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	r := &repo.GormRepo{DB: db}

	var store cart.Store = cart.NewMemoryStore()
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			log.Fatalf("redis ping: %v", err)
		}
		store = cart.NewRedisStore(rdb, cfg.CartTTL)
	} else {
		logger.Warn("cart_store_in_memory", "reason", "REDIS_ADDR not set")
	}

	publisher := events.New(cfg.KafkaBrokers)

	catalogSvc := &service.CatalogService{Repo: r}
	if cfg.ESURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		es, err := search.NewClient(ctx, cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		cancel()
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		catalogSvc.Searcher = search.NewIndex(es, cfg.ESIndex)
	}

	var gateway payments.Gateway
	if cfg.PaymentsEnabled() {
		gateway = coinbase.NewClient(cfg.CoinbaseAPIKey, cfg.CoinbaseAPIURL, cfg.CoinbaseTimeout)
	} else {
		logger.Warn("payments_disabled", "reason", "COINBASE_COMMERCE_API_KEY not set")
	}

	cartSvc := &service.CartService{Store: store, Catalog: catalogSvc}
	checkoutSvc := &service.CheckoutService{
		Repo:      r,
		Gateway:   gateway,
		Events:    publisher,
		StoreName: cfg.StoreName,
		Currency:  cfg.Currency,
		Timeout:   cfg.CoinbaseTimeout,
	}

	view := &httpserver.View{Cart: cartSvc, StoreName: cfg.StoreName, PaymentsEnabled: cfg.PaymentsEnabled()}

	renderer, err := httpserver.NewRenderer()
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	e.Use(loggingmw.RequestLogger(logger))

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.Secure = cfg.CookieSecure

	httpserver.Register(e, &httpserver.Deps{
		CatalogHandler:  &httpserver.CatalogHTTP{Svc: catalogSvc, View: view},
		CartHandler:     &httpserver.CartHTTP{Svc: cartSvc, View: view},
		CheckoutHandler: &httpserver.CheckoutHTTP{Svc: checkoutSvc, Catalog: catalogSvc, Cart: cartSvc, BaseURL: cfg.PublicBaseURL},
		WebhookHandler: &httpserver.WebhookHTTP{
			Parser: coinbase.NewWebhook(cfg.CoinbaseWebhookSecret),
			Svc:    &service.NotificationService{Repo: r, Events: publisher},
		},
		OrderHandler: &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: r}, View: view},
		APIHandler:   &httpserver.APIHTTP{Catalog: catalogSvc},
		Sessions:     session.NewManager(cfg.SessionSecret, cfg.CookieSecure, cfg.CartTTL),
		CSRF:         csrfCfg,
		DB:           db,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr, "payments_enabled", cfg.PaymentsEnabled())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_failed", "error", err)
	}

	if c, ok := publisher.(io.Closer); ok {
		_ = c.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	_ = pkgdb.Close(db)

	logger.Info("stopped")
}
