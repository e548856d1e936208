package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/xiaot623/gogo/chatrelay/internal/domain"
)

// Response bodies of the chat endpoint.
const (
	bodyMethodNotAllowed = "Method Not Allowed"
	bodyInvalidBody      = "Invalid request body"
	bodyMessageRequired  = "Message is required"
	bodyInternalError    = "Internal Server Error"
)

// ErrorResponse is the JSON body of a 500 response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse acknowledges a new conversation.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// Chat routes a chat request to the new-conversation or send-message flow.
// POST /api/chat
func (h *Handler) Chat(c echo.Context) error {
	var body []byte
	if c.Request().Method == http.MethodPost {
		b, err := io.ReadAll(c.Request().Body)
		if err != nil {
			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				return httpErr
			}
			return c.String(http.StatusBadRequest, bodyInvalidBody)
		}
		body = b
	}

	switch intent := domain.ParseIntent(c.Request().Method, body).(type) {
	case domain.NewConversation:
		return h.newConversation(c)
	case domain.SendMessage:
		return h.sendMessage(c, intent.Message)
	case domain.Invalid:
		return h.reject(c, intent.Err)
	default:
		return h.internalError(c, "", fmt.Errorf("unhandled intent %T", intent))
	}
}

func (h *Handler) reject(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrMethodNotAllowed):
		c.Response().Header().Set(echo.HeaderAllow, http.MethodPost)
		return c.String(http.StatusMethodNotAllowed, bodyMethodNotAllowed)
	case errors.Is(err, domain.ErrMessageRequired):
		// The session is still established for a well-formed request.
		h.sessions.ResolveOrCreate(c)
		return c.String(http.StatusBadRequest, bodyMessageRequired)
	default:
		slog.Debug("rejected chat request", slog.Any("error", err))
		return c.String(http.StatusBadRequest, bodyInvalidBody)
	}
}

func (h *Handler) newConversation(c echo.Context) error {
	sessionID, err := h.sessions.Rotate(c)
	if err != nil {
		return h.internalError(c, sessionID, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (h *Handler) sendMessage(c echo.Context, message string) error {
	sessionID := h.sessions.ResolveOrCreate(c)

	if _, ok := c.Response().Writer.(http.Flusher); !ok {
		return h.internalError(c, sessionID, errors.New("streaming not supported"))
	}

	result, err := h.service.SendMessage(c.Request().Context(), sessionID, message, &responseSink{res: c.Response()})
	if err == nil {
		if result.ClientGone {
			slog.Info("client disconnected, turn saved",
				slog.String("session_id", sessionID),
				slog.Int("fragments", result.Fragments),
			)
		}
		return nil
	}

	if c.Response().Committed {
		// Headers are gone; cut the connection so the client sees a
		// truncated stream rather than a clean end.
		slog.Error("chat stream aborted",
			slog.String("session_id", sessionID),
			slog.Any("error", err),
		)
		panic(http.ErrAbortHandler)
	}
	return h.internalError(c, sessionID, err)
}

// internalError logs err for operators and answers with an opaque 500.
func (h *Handler) internalError(c echo.Context, sessionID string, err error) error {
	slog.Error("chat request failed",
		slog.String("session_id", sessionID),
		slog.Any("error", err),
	)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: bodyInternalError})
}

// responseSink streams raw text fragments on the echo response.
type responseSink struct {
	res *echo.Response
}

func (s *responseSink) Begin() {
	s.res.Header().Set("Content-Type", "text/event-stream")
	s.res.Header().Set("Cache-Control", "no-cache")
	s.res.Header().Set("Connection", "keep-alive")
	s.res.WriteHeader(http.StatusOK)
}

func (s *responseSink) Write(p []byte) (int, error) {
	return s.res.Write(p)
}

func (s *responseSink) Flush() {
	s.res.Flush()
}
