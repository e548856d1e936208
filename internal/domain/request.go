package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// ChatRequest is the JSON body accepted by the chat endpoint.
type ChatRequest struct {
	NewConversation *bool   `json:"newConversation,omitempty"`
	Message         *string `json:"message,omitempty"`
}

// Intent is what a chat request asks the server to do.
// It is one of NewConversation, SendMessage or Invalid.
type Intent interface {
	intent()
}

// NewConversation discards the current session and starts a fresh one.
type NewConversation struct{}

// SendMessage appends Message to the session history and streams the reply.
type SendMessage struct {
	Message string
}

// Invalid is a request rejected at the boundary. Err is one of the client
// input errors declared in this package.
type Invalid struct {
	Err error
}

func (NewConversation) intent() {}
func (SendMessage) intent()     {}
func (Invalid) intent()         {}

// ParseIntent validates method and body and classifies the request.
// An empty body is treated as an empty object.
func ParseIntent(method string, body []byte) Intent {
	if method != http.MethodPost {
		return Invalid{Err: ErrMethodNotAllowed}
	}

	req, err := DecodeChatRequest(body)
	if err != nil {
		return Invalid{Err: err}
	}

	if req.NewConversation != nil && *req.NewConversation {
		return NewConversation{}
	}
	if req.Message == nil || *req.Message == "" {
		return Invalid{Err: ErrMessageRequired}
	}
	return SendMessage{Message: *req.Message}
}

// DecodeChatRequest parses body as a ChatRequest object. Anything other than
// a JSON object with correctly typed fields is rejected with ErrInvalidBody.
func DecodeChatRequest(body []byte) (*ChatRequest, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return &ChatRequest{}, nil
	}
	if trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidBody)
	}

	var req ChatRequest
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return &req, nil
}
