package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/Skotchmaster/tonstore/pkg/config"
	"github.com/Skotchmaster/tonstore/pkg/logging"
	botcfg "github.com/Skotchmaster/tonstore/services/bot/internal/config"
	"github.com/Skotchmaster/tonstore/services/bot/internal/handlers"
)

func main() {
	config.LoadDotEnv("services/bot/.env", ".env")

	cfg := botcfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := bot.New(cfg.Token,
		bot.WithDefaultHandler(func(ctx context.Context, _ *bot.Bot, u *models.Update) {
			if u.Message != nil {
				logger.Debug("update_ignored", "chat_id", u.Message.Chat.ID)
			}
		}),
		bot.WithErrorsHandler(func(err error) {
			logger.Warn("telegram_error", "error", err)
		}),
	)
	if err != nil {
		log.Fatalf("bot init: %v", err)
	}

	handlers.New(b, cfg.StoreURL, logger).Register(b)

	logger.Info("polling", "store_url", cfg.StoreURL)
	b.Start(ctx)
	logger.Info("stopped")
}
