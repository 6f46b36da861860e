package config

import (
	"os"
	"strings"
	"time"

	"github.com/Skotchmaster/tonstore/pkg/config"
)

type ServiceConfig struct {
	config.Config

	SessionSecret []byte
	CookieSecure  bool

	PublicBaseURL string
	StoreName     string
	Currency      string

	CoinbaseAPIKey        string
	CoinbaseWebhookSecret string
	CoinbaseAPIURL        string
	CoinbaseTimeout       time.Duration

	CartTTL time.Duration
}

func Load() ServiceConfig {
	cfg := config.Load()
	cfg.ServiceName = config.EnvDefault("SERVICE_NAME", "storefront")

	sc := ServiceConfig{
		Config: cfg,

		SessionSecret: []byte(os.Getenv("SESSION_SECRET")),
		CookieSecure:  os.Getenv("COOKIE_SECURE") == "true",

		PublicBaseURL: strings.TrimRight(config.EnvDefault("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		StoreName:     config.EnvDefault("STORE_NAME", "TonStore"),
		Currency:      config.EnvDefault("CURRENCY", "RUB"),

		CoinbaseAPIKey:        os.Getenv("COINBASE_COMMERCE_API_KEY"),
		CoinbaseWebhookSecret: os.Getenv("COINBASE_WEBHOOK_SECRET"),
		CoinbaseAPIURL:        config.EnvDefault("COINBASE_API_URL", "https://api.commerce.coinbase.com"),
		CoinbaseTimeout:       config.EnvDurationDefault("COINBASE_TIMEOUT", 10*time.Second),

		CartTTL: config.EnvDurationDefault("CART_TTL", 30*24*time.Hour),
	}

	config.MustNonEmpty(sc.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(sc.SessionSecret, "SESSION_SECRET")

	return sc
}

// PaymentsEnabled reports whether checkout can reach the payment processor.
func (c ServiceConfig) PaymentsEnabled() bool {
	return c.CoinbaseAPIKey != ""
}
