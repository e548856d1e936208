package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/chatrelay/internal/config"
	"github.com/xiaot623/gogo/chatrelay/internal/domain"
)

func TestMockClientEchoesLastUserMessage(t *testing.T) {
	client := NewMockClient()
	stream, err := client.Complete(context.Background(), domain.History{
		domain.UserMessage("first"),
		domain.AssistantMessage("reply"),
		domain.UserMessage("second"),
	})
	require.NoError(t, err)

	fragments := collect(t, stream)
	require.NoError(t, stream.Err())
	assert.Greater(t, len(fragments), 1)
	assert.Equal(t, `[MOCK] Received your message: "second". This is a mock response.`, strings.Join(fragments, ""))
}

func TestMockClientCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMockClient().Complete(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSliceStreamReportsErrorAfterFragments(t *testing.T) {
	boom := errors.New("boom")
	s := NewSliceStream([]string{"a", "b"}, boom)

	require.True(t, s.Next())
	assert.NoError(t, s.Err())
	require.True(t, s.Next())
	assert.Equal(t, "b", s.Current())
	assert.False(t, s.Next())
	assert.ErrorIs(t, s.Err(), boom)

	require.NoError(t, s.Close())
	assert.True(t, s.Closed())
}

func TestNewCompleter(t *testing.T) {
	t.Setenv(EnvGogoMode, "")

	c, err := NewCompleter(&config.Config{LLMProvider: ProviderLiteLLM, LiteLLMURL: "http://localhost:4000"})
	require.NoError(t, err)
	assert.IsType(t, &Client{}, c)

	c, err = NewCompleter(&config.Config{LLMProvider: ProviderOpenAI, OpenAIAPIKey: "sk-test"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)

	_, err = NewCompleter(&config.Config{LLMProvider: ProviderOpenAI})
	assert.Error(t, err)

	_, err = NewCompleter(&config.Config{LLMProvider: "nope"})
	assert.Error(t, err)

	t.Setenv(EnvGogoMode, ModeMock)
	c, err = NewCompleter(&config.Config{LLMProvider: "nope"})
	require.NoError(t, err)
	assert.IsType(t, &MockClient{}, c)
}
