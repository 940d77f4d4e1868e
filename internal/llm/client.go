package llm

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	ErrNoChoices       = errors.New("no response choices")
	ErrNotSupported    = errors.New("operation not supported by provider")
	ErrAPIKeyNotSet    = errors.New("llm api key is not set")
	ErrUnknownProvider = errors.New("unsupported llm provider")
)

// ChatRequest is a single system + user exchange.
type ChatRequest struct {
	Model       string
	System      string
	User        string
	Temperature float32
	MaxTokens   int
	// Schema, when set, asks the provider for JSON output matching it.
	Schema     json.RawMessage
	SchemaName string
}

type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ChatClient is implemented by every provider.
type ChatClient interface {
	LLMClient
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

// StreamingClient streams the assistant message, calling onDelta for every
// content fragment, and returns the full text.
type StreamingClient interface {
	ChatClient
	Stream(ctx context.Context, req ChatRequest, onDelta func(string)) (string, error)
}

// Transcriber turns an audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

type RerankerClient interface {
	Rank(ctx context.Context, query string, documents []string) ([]int, error)
}
