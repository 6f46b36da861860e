// Package handlers answers the two bot interactions: the /start greeting with
// a button that opens the storefront mini-app, and the echo of data the
// mini-app sends back.
package handlers

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

const (
	WelcomeText   = "Welcome to TonStore! Please open the store to see the latest updates."
	OpenStoreText = "Open Store"
	selectedText  = "You have selected: "
)

// Sender is the part of *bot.Bot the handlers need.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

type Handlers struct {
	Sender   Sender
	StoreURL string
	Logger   *slog.Logger

	// NewVersion returns the cache-busting value appended to StoreURL.
	NewVersion func() string
}

func New(sender Sender, storeURL string, logger *slog.Logger) *Handlers {
	return &Handlers{
		Sender:     sender,
		StoreURL:   storeURL,
		Logger:     logger,
		NewVersion: func() string { return uuid.NewString() },
	}
}

// Register attaches the handlers to b.
func (h *Handlers) Register(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, h.Start)
	b.RegisterHandlerMatchFunc(IsWebAppData, h.WebAppData)
}

func IsWebAppData(u *models.Update) bool {
	return u.Message != nil && u.Message.WebAppData != nil
}

// StoreLink returns StoreURL with a fresh v query parameter so the mini-app
// is not served from the client cache.
func (h *Handlers) StoreLink() (string, error) {
	u, err := url.Parse(h.StoreURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("v", h.NewVersion())
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (h *Handlers) Start(ctx context.Context, _ *bot.Bot, u *models.Update) {
	if u.Message == nil {
		return
	}
	l := h.Logger.With("handler", "bot.start", "chat_id", u.Message.Chat.ID)

	link, err := h.StoreLink()
	if err != nil {
		l.Error("start_failed", "reason", "bad store url", "error", err)
		return
	}

	h.reply(ctx, l, u.Message, WelcomeText, &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: OpenStoreText, WebApp: &models.WebAppInfo{URL: link}}},
		},
	})
}

func (h *Handlers) WebAppData(ctx context.Context, _ *bot.Bot, u *models.Update) {
	if !IsWebAppData(u) {
		return
	}
	l := h.Logger.With("handler", "bot.web_app_data", "chat_id", u.Message.Chat.ID)
	l.Info("web_app_data_received", "data", u.Message.WebAppData.Data)

	h.reply(ctx, l, u.Message, selectedText+u.Message.WebAppData.Data, nil)
}

func (h *Handlers) reply(ctx context.Context, l *slog.Logger, to *models.Message, text string, markup models.ReplyMarkup) {
	params := &bot.SendMessageParams{
		ChatID:          to.Chat.ID,
		Text:            text,
		ReplyParameters: &models.ReplyParameters{MessageID: to.ID},
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	if _, err := h.Sender.SendMessage(ctx, params); err != nil {
		l.Error("send_message_failed", "error", err)
	}
}
