package llm

import (
	"context"
	"fmt"

	"github.com/xiaot623/gogo/chatrelay/internal/domain"
)

// MockClient is a mock implementation of Completer for local runs and tests.
type MockClient struct {
	chunkSize int
}

// NewMockClient creates a new mock LLM client.
func NewMockClient() *MockClient {
	return &MockClient{chunkSize: 10}
}

// Complete streams a canned reply that echoes the last user message.
func (m *MockClient) Complete(ctx context.Context, history domain.History) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return NewSliceStream(m.splitIntoChunks(m.generateMockResponse(history)), nil), nil
}

// generateMockResponse generates a mock response based on the history.
func (m *MockClient) generateMockResponse(history domain.History) string {
	// Get the last user message
	var lastUserMessage string
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == domain.RoleUser {
			lastUserMessage = history[i].Content
			break
		}
	}

	if lastUserMessage == "" {
		return "[MOCK] This is a mock response from the LLM client."
	}

	return fmt.Sprintf("[MOCK] Received your message: %q. This is a mock response.", truncate(lastUserMessage, 100))
}

// splitIntoChunks splits a string into chunks of approximately chunkSize bytes,
// never cutting through a multi-byte character.
func (m *MockClient) splitIntoChunks(s string) []string {
	var chunks []string
	runes := []rune(s)
	for i := 0; i < len(runes); i += m.chunkSize {
		end := min(i+m.chunkSize, len(runes))
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

// truncate truncates a string to the given length.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
