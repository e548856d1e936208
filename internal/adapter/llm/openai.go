package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"

	"github.com/xiaot623/gogo/chatrelay/internal/domain"
)

// OpenAIClient completes conversations through the official OpenAI SDK.
// Any OpenAI-compatible endpoint can be used by setting a base URL.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient creates a client with the given credentials. baseURL may be empty.
// Requests are single-attempt; the SDK's automatic retries are turned off.
func NewOpenAIClient(apiKey, baseURL, model string, opts ...option.RequestOption) *OpenAIClient {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	reqOpts = append(reqOpts, opts...)

	return &OpenAIClient{
		client: openai.NewClient(reqOpts...),
		model:  model,
	}
}

// Complete starts a streaming completion. The SDK only reports request
// failures once the stream is read, so the first chunk is fetched here.
func (c *OpenAIClient) Complete(ctx context.Context, history domain.History) (Stream, error) {
	stream := c.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: toOpenAIMessages(history),
	})

	s := &openAIStream{stream: stream}
	if s.advance() {
		s.primed = true
		return s, nil
	}
	if err := stream.Err(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("openai completion failed: %w", err)
	}
	return s, nil
}

func toOpenAIMessages(history domain.History) []openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case domain.RoleUser:
			params = append(params, openai.UserMessage(msg.Content))
		case domain.RoleAssistant:
			assistant := openai.ChatCompletionAssistantMessageParam{
				Content: openai.ChatCompletionAssistantMessageParamContentUnion{OfString: openai.String(msg.Content)},
			}
			params = append(params, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant})
		}
	}
	return params
}

// openAIStream adapts the SDK chunk stream to Stream.
type openAIStream struct {
	stream    *ssestream.Stream[openai.ChatCompletionChunk]
	current   string
	primed    bool
	exhausted bool
}

func (s *openAIStream) advance() bool {
	if !s.stream.Next() {
		s.exhausted = true
		return false
	}
	chunk := s.stream.Current()
	s.current = ""
	if len(chunk.Choices) > 0 {
		s.current = chunk.Choices[0].Delta.Content
	}
	return true
}

func (s *openAIStream) Next() bool {
	if s.primed {
		s.primed = false
		return true
	}
	if s.exhausted {
		return false
	}
	return s.advance()
}

func (s *openAIStream) Current() string {
	return s.current
}

func (s *openAIStream) Err() error {
	if err := s.stream.Err(); err != nil {
		return fmt.Errorf("openai streaming error: %w", err)
	}
	return nil
}

func (s *openAIStream) Close() error {
	return s.stream.Close()
}
