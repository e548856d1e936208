package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xiaot623/gogo/chatrelay/internal/domain"
)

// Client is an OpenAI-compatible HTTP client for a LiteLLM proxy.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates a new LiteLLM client.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ChatCompletionRequest represents the OpenAI chat completion request.
type ChatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream,omitempty"`
}

// ChatMessage represents a chat message.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Choice represents a completion choice.
type Choice struct {
	Index        int          `json:"index"`
	Delta        *ChatMessage `json:"delta,omitempty"`
	FinishReason string       `json:"finish_reason,omitempty"`
}

// StreamChunk represents a single SSE chunk from the stream.
type StreamChunk struct {
	ID      string    `json:"id"`
	Object  string    `json:"object"`
	Created int64     `json:"created"`
	Model   string    `json:"model"`
	Choices []Choice  `json:"choices"`
	Error   *APIError `json:"error,omitempty"`
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// APIError represents the error details.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code,omitempty"`
}

// Complete sends a streaming chat completion request for history.
func (c *Client) Complete(ctx context.Context, history domain.History) (Stream, error) {
	req := &ChatCompletionRequest{
		Model:    c.model,
		Messages: toChatMessages(history),
		Stream:   true,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(httpReq)
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != nil {
			return nil, fmt.Errorf("LLM API error [%d]: %s (type: %s)", resp.StatusCode, errResp.Error.Message, errResp.Error.Type)
		}
		return nil, fmt.Errorf("LLM API error [%d]: %s", resp.StatusCode, string(respBody))
	}

	return newSSEStream(resp.Body), nil
}

// setHeaders sets common request headers.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func toChatMessages(history domain.History) []ChatMessage {
	messages := make([]ChatMessage, 0, len(history))
	for _, msg := range history {
		messages = append(messages, ChatMessage{Role: string(msg.Role), Content: msg.Content})
	}
	return messages
}

// sseStream parses an OpenAI-style SSE body into text fragments.
type sseStream struct {
	body    io.ReadCloser
	reader  *bufio.Reader
	current string
	err     error
	done    bool
}

func newSSEStream(body io.ReadCloser) *sseStream {
	return &sseStream{
		body:   body,
		reader: bufio.NewReader(body),
	}
}

func (s *sseStream) Next() bool {
	for !s.done {
		line, err := s.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			s.err = fmt.Errorf("failed to read stream: %w", err)
			s.done = true
			return false
		}
		eof := err == io.EOF

		fragment, ok := s.parseLine(line)
		if eof && !s.done {
			// The body ended without [DONE]; the reply may be cut short.
			s.err = fmt.Errorf("failed to read stream: %w", io.ErrUnexpectedEOF)
			s.done = true
		}
		if ok {
			s.current = fragment
			return true
		}
	}
	return false
}

// parseLine extracts the delta text from one SSE line. It reports false for
// lines that carry no chunk: blanks, comments, other fields, malformed
// payloads and the [DONE] marker.
func (s *sseStream) parseLine(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "data:") {
		return "", false
	}

	data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
	if data == "[DONE]" {
		s.done = true
		return "", false
	}

	var chunk StreamChunk
	if err := json.Unmarshal([]byte(data), &chunk); err != nil {
		// Skip malformed chunks
		return "", false
	}

	if chunk.Error != nil {
		s.err = fmt.Errorf("LLM stream error: %s (type: %s)", chunk.Error.Message, chunk.Error.Type)
		s.done = true
		return "", false
	}

	if len(chunk.Choices) == 0 || chunk.Choices[0].Delta == nil {
		return "", true
	}
	return chunk.Choices[0].Delta.Content, true
}

func (s *sseStream) Current() string {
	return s.current
}

func (s *sseStream) Err() error {
	return s.err
}

func (s *sseStream) Close() error {
	s.done = true
	return s.body.Close()
}
