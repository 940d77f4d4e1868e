package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/notify/internal/config"
	"github.com/agenthands/notify/internal/core"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Store.Path = ":memory:"
	return cfg
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_WithoutAPIKey(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(), discard())
	require.NoError(t, err)
	defer a.Close(ctx)

	assert.Nil(t, a.Notebook.Graphs)
	assert.Nil(t, a.Notebook.Audio)
	assert.NotNil(t, a.Notebook.YouTube)
	assert.Nil(t, a.Notebook.Mirror)

	sub, err := a.Store.CreateSubject(ctx, "w", "Offline")
	require.NoError(t, err)
	_, err = a.Notebook.GenerateMarkdown(ctx, sub.ID, nil)
	assert.ErrorIs(t, err, core.ErrNotConfigured)
}

func TestNew_OpenAIWiresEverything(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.LLM.APIKey = "sk-test"
	cfg.YouTube.Sources = []string{"timedtext", "page", "bogus"}

	a, err := New(ctx, cfg, discard())
	require.NoError(t, err)
	defer a.Close(ctx)

	assert.NotNil(t, a.Notebook.Graphs)
	assert.NotNil(t, a.Notebook.Markdown)
	assert.NotNil(t, a.Notebook.Audio)
	assert.NotNil(t, a.Notebook.Reranker)
}

func TestNew_UnknownProvider(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.Provider = "mystery"

	_, err := New(context.Background(), cfg, discard())
	require.Error(t, err)
}
