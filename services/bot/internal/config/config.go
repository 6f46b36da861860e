package config

import (
	"os"

	"github.com/Skotchmaster/tonstore/pkg/config"
)

type BotConfig struct {
	ServiceName string
	LogLevel    string

	Token    string
	StoreURL string
}

func Load() BotConfig {
	cfg := BotConfig{
		ServiceName: config.EnvDefault("SERVICE_NAME", "bot"),
		LogLevel:    os.Getenv("LOG_LEVEL"),
		Token:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		StoreURL:    os.Getenv("STORE_URL"),
	}

	config.MustNonEmpty(cfg.Token, "TELEGRAM_BOT_TOKEN")
	config.MustNonEmpty(cfg.StoreURL, "STORE_URL")

	return cfg
}
