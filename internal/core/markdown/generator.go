// Package markdown rewrites transcripts as structured research documents.
package markdown

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agenthands/notify/internal/config"
	"github.com/agenthands/notify/internal/llm"
)

const defaultChunkTokens = 3000

const basePrompt = `You are a research assistant that transforms transcripts into comprehensive research documents. Follow these guidelines:
1. Structure content using markdown
2. Use headings (##, ###) for main topics and subtopics
3. Use bullet points for lists
4. Use **bold** for key terms
5. Use *italics* for emphasis
6. Use ` + "`code blocks`" + ` for technical terms
7. Use > blockquotes for important statements
8. Add relevant external links where appropriate
9. Include code snippets when technical concepts are discussed
10. Use proper markdown syntax throughout`

// SystemPrompt returns the prompt for one chunk. The first chunk opens with a
// summary and the last one closes with references.
func SystemPrompt(base string, first, last bool) string {
	if base == "" {
		base = basePrompt
	}
	var sb strings.Builder
	sb.WriteString(base)
	if first {
		sb.WriteString("\n- Create a summary section at the top")
	}
	if last {
		sb.WriteString("\n- Add a references section at the bottom")
	}
	return sb.String()
}

type ProgressFunc func(done, total int)

type Generator struct {
	LLM    llm.ChatClient
	Config config.MarkdownConfig
	Tokens TokenCounter
	Logger *slog.Logger
}

func NewGenerator(client llm.ChatClient, cfg config.MarkdownConfig, tokens TokenCounter, logger *slog.Logger) *Generator {
	if cfg.ChunkTokens <= 0 {
		cfg.ChunkTokens = defaultChunkTokens
	}
	if tokens == nil {
		tokens = ApproxCounter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		LLM:    client,
		Config: cfg,
		Tokens: tokens,
		Logger: logger,
	}
}

// GenerateChunk converts one transcript chunk.
func (g *Generator) GenerateChunk(ctx context.Context, text string, first, last bool) (string, error) {
	response, err := g.LLM.Chat(ctx, llm.ChatRequest{
		Model:       g.Config.Model,
		System:      SystemPrompt(g.Config.SystemPrompt, first, last),
		User:        text,
		Temperature: g.Config.Temperature,
		MaxTokens:   g.Config.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate markdown: %w", err)
	}
	return strings.TrimSpace(response), nil
}

// Generate splits the transcript on the token budget and converts the chunks
// in order. Any failing chunk fails the whole document.
func (g *Generator) Generate(ctx context.Context, transcript string, progress ProgressFunc) (string, error) {
	chunks := Split(transcript, g.Config.ChunkTokens, g.Tokens)
	if len(chunks) == 0 {
		return "", nil
	}
	g.Logger.Info("generating markdown", "chunks", len(chunks))

	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		md, err := g.GenerateChunk(ctx, chunk, i == 0, i == len(chunks)-1)
		if err != nil {
			return "", fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		parts = append(parts, md)
		if progress != nil {
			progress(i+1, len(chunks))
		}
	}
	return strings.Join(parts, "\n\n"), nil
}
