package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/Skotchmaster/tonstore/pkg/cookies"
	"github.com/Skotchmaster/tonstore/pkg/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	CookieName = "tonstore_session"
	contextKey = "session_id"
)

var ErrInvalidSession = errors.New("invalid session token")

type Claims struct {
	jwt.RegisteredClaims
}

// Manager issues and verifies the signed session cookie. The cookie only
// carries an opaque id; cart contents live in the cart store.
type Manager struct {
	secret []byte
	secure bool
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret []byte, secure bool, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Manager{secret: secret, secure: secure, ttl: ttl, now: time.Now}
}

func (m *Manager) Sign(sessionID string, expires time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(m.now()),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) Parse(token string) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidSession
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, ErrInvalidSession
	}
	return &claims, nil
}

// Middleware makes sure every request has a session id, issuing a new cookie
// when none is present or the old one does not verify. Cookies past half of
// their lifetime are re-issued with the same id.
func (m *Manager) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			now := m.now()

			var sid string
			reissue := true
			if ck, err := c.Cookie(CookieName); err == nil && ck.Value != "" {
				if claims, err := m.Parse(ck.Value); err == nil {
					sid = claims.Subject
					reissue = claims.ExpiresAt == nil || claims.ExpiresAt.Time.Sub(now) < m.ttl/2
				}
			}
			if sid == "" {
				sid = uuid.NewString()
			}

			if reissue {
				exp := now.Add(m.ttl)
				token, err := m.Sign(sid, exp)
				if err != nil {
					logging.FromContext(c.Request().Context()).Error("session_sign_failed", "error", err)
					return echo.NewHTTPError(http.StatusInternalServerError, "cannot create session")
				}
				c.SetCookie(cookies.Create(CookieName, token, "/", exp, m.secure))
			}

			c.Set(contextKey, sid)
			return next(c)
		}
	}
}

// ID returns the session id set by Middleware.
func ID(c echo.Context) string {
	sid, _ := c.Get(contextKey).(string)
	return sid
}

// WithID is for handlers under test that skip the middleware.
func WithID(c echo.Context, sid string) {
	c.Set(contextKey, sid)
}
