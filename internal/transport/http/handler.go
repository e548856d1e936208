package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/xiaot623/gogo/chatrelay/internal/service"
	"github.com/xiaot623/gogo/chatrelay/internal/session"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Handler handles HTTP requests.
type Handler struct {
	service  *service.Service
	sessions *session.Manager
}

// NewHandler creates a new handler.
func NewHandler(svc *service.Service, sessions *session.Manager) *Handler {
	return &Handler{
		service:  svc,
		sessions: sessions,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Every method reaches Chat so that it can answer 405 itself.
	e.Any("/api/chat", h.Chat)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": Version,
	})
}
