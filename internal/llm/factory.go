package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agenthands/notify/internal/config"
)

// NewClient builds the chat client for cfg.Provider. The Transcriber is only
// non-nil for OpenAI-compatible providers.
func NewClient(ctx context.Context, cfg config.LLMConfig) (ChatClient, Transcriber, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "openai":
		if cfg.APIKey == "" {
			return nil, nil, ErrAPIKeyNotSet
		}
		c := NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL).
			WithTranscriptionModel(cfg.TranscriptionModel)
		return c, c, nil

	case "gemini":
		c, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, nil, err
		}
		return c, nil, nil

	case "claude":
		c := NewClaudeClient(cfg.APIKey, cfg.Model, cfg.BaseURL)
		return c, nil, nil

	case "ollama":
		// Ollama speaks the OpenAI protocol under /v1.
		baseURL := cfg.BaseURL
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
		}
		slog.Info("using ollama through the openai-compatible api", "base_url", baseURL)

		// The key is ignored by Ollama but the client requires one.
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama"
		}

		c := NewOpenAIClient(apiKey, cfg.Model, baseURL).
			WithTranscriptionModel(cfg.TranscriptionModel)
		return c, c, nil

	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
}
