package llm

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/xiaot623/gogo/chatrelay/internal/config"
)

const (
	// EnvGogoMode is the environment variable name for mode selection.
	EnvGogoMode = "GOGO_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"

	ProviderOpenAI  = "openai"
	ProviderLiteLLM = "litellm"
)

// NewCompleter creates the completer selected by configuration.
// If GOGO_MODE=MOCK, returns a MockClient regardless of LLMProvider.
func NewCompleter(cfg *config.Config) (Completer, error) {
	if os.Getenv(EnvGogoMode) == ModeMock {
		slog.Info("GOGO_MODE=MOCK detected, using mock LLM client")
		return NewMockClient(), nil
	}

	switch cfg.LLMProvider {
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for provider %q", ProviderOpenAI)
		}
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.LLMModel), nil
	case ProviderLiteLLM:
		return NewClient(cfg.LiteLLMURL, cfg.LiteLLMAPIKey, cfg.LLMModel, cfg.LLMTimeout), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}
