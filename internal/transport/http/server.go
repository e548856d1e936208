// Package http provides the HTTP server implementation for the chat relay.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// maxBodySize bounds the chat request body.
const maxBodySize = "1M"

// NewServer creates and configures the HTTP server.
func NewServer(h *Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(maxBodySize))

	// Register Routes
	h.RegisterRoutes(e)

	return e
}
