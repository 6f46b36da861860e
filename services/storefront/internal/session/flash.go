package session

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/Skotchmaster/tonstore/pkg/cookies"
	"github.com/labstack/echo/v4"
)

const (
	FlashCookieName = "tonstore_flash"
	pendingKey      = "flash_pending"
)

type Flash struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

// AddFlash queues a notice for the next rendered page.
func AddFlash(c echo.Context, category, message string) {
	pending, _ := c.Get(pendingKey).([]Flash)
	pending = append(pending, Flash{Category: category, Message: message})
	c.Set(pendingKey, pending)

	raw, err := json.Marshal(pending)
	if err != nil {
		return
	}
	c.SetCookie(cookies.Create(FlashCookieName, base64.RawURLEncoding.EncodeToString(raw), "/", time.Now().Add(5*time.Minute), false))
}

// Flashes returns and clears notices queued by a previous request.
func Flashes(c echo.Context) []Flash {
	ck, err := c.Cookie(FlashCookieName)
	if err != nil || ck.Value == "" {
		return nil
	}
	c.SetCookie(cookies.Delete(FlashCookieName, "/", false))

	raw, err := base64.RawURLEncoding.DecodeString(ck.Value)
	if err != nil {
		return nil
	}
	var out []Flash
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
