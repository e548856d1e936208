// Package session issues and rotates the session identifier carried in the
// client's cookie.
package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CookieName is the cookie carrying the session identifier.
const CookieName = "session_id"

// DefaultTTL is the lifetime of a session cookie.
const DefaultTTL = 24 * time.Hour

// HistoryDeleter removes the stored history of a session.
type HistoryDeleter interface {
	Delete(ctx context.Context, sessionID string) error
}

// Manager resolves, creates and rotates sessions. The cookie is written to the
// response before any store access so it reaches the client even if later steps fail.
type Manager struct {
	history HistoryDeleter
	ttl     time.Duration
	secure  bool
	newID   func() string
}

// NewManager creates a session manager. secure should only be false for
// local development over plain HTTP.
func NewManager(history HistoryDeleter, ttl time.Duration, secure bool) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		history: history,
		ttl:     ttl,
		secure:  secure,
		newID:   uuid.NewString,
	}
}

// ResolveOrCreate returns the session id from the request cookie, or mints a
// new one and sets it on the response.
func (m *Manager) ResolveOrCreate(c echo.Context) string {
	if id, ok := m.current(c); ok {
		return id
	}

	id := m.newID()
	c.SetCookie(m.cookie(id))
	return id
}

// Rotate installs a new session id and deletes the history of the previous
// session, if the request carried one. The new cookie is set even when the
// delete fails.
func (m *Manager) Rotate(c echo.Context) (string, error) {
	old, hadOld := m.current(c)

	id := m.newID()
	c.SetCookie(m.cookie(id))

	if hadOld {
		if err := m.history.Delete(c.Request().Context(), old); err != nil {
			return id, fmt.Errorf("failed to discard session %s: %w", old, err)
		}
	}
	return id, nil
}

// current returns the session id carried by the request. Values that are not
// server-issued identifiers are ignored.
func (m *Manager) current(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return "", false
	}
	return cookie.Value, true
}

func (m *Manager) cookie(id string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		Expires:  time.Now().Add(m.ttl),
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}
