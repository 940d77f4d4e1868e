// Package app wires configuration into a ready Notebook.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/agenthands/notify/internal/config"
	"github.com/agenthands/notify/internal/core"
	"github.com/agenthands/notify/internal/core/audio"
	"github.com/agenthands/notify/internal/core/graphgen"
	"github.com/agenthands/notify/internal/core/markdown"
	"github.com/agenthands/notify/internal/core/transcription"
	"github.com/agenthands/notify/internal/core/youtube"
	"github.com/agenthands/notify/internal/driver"
	"github.com/agenthands/notify/internal/llm"
	"github.com/agenthands/notify/internal/store"
)

type App struct {
	Config   *config.Config
	Store    *store.Store
	Notebook *core.Notebook
	Logger   *slog.Logger

	closers []func(context.Context) error
}

// New opens the store and builds every component the configuration allows.
// A missing API key leaves the model backed operations unconfigured instead
// of failing, so the store can still be browsed and exported.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	a := &App{
		Config:   cfg,
		Store:    st,
		Notebook: core.NewNotebook(st, logger),
		Logger:   logger,
	}
	a.closers = append(a.closers, func(context.Context) error { return st.Close() })

	if err := a.wireLLM(ctx); err != nil {
		a.Close(ctx)
		return nil, err
	}
	a.wireYouTube()
	if err := a.wireMirror(ctx); err != nil {
		a.Close(ctx)
		return nil, err
	}
	return a, nil
}

func (a *App) wireLLM(ctx context.Context) error {
	cfg := a.Config
	chat, transcriber, err := llm.NewClient(ctx, cfg.LLM)
	if errors.Is(err, llm.ErrAPIKeyNotSet) {
		a.Logger.Warn("no llm api key, generation and transcription are disabled", "provider", cfg.LLM.Provider)
		return nil
	}
	if err != nil {
		return fmt.Errorf("init llm client: %w", err)
	}
	if c, ok := chat.(io.Closer); ok {
		a.closers = append(a.closers, func(context.Context) error { return c.Close() })
	}

	nb := a.Notebook
	nb.Graphs = graphgen.NewGenerator(chat, cfg.Graph, a.Logger)

	var tokens markdown.TokenCounter
	if tc, err := markdown.NewTiktokenCounter(); err == nil {
		tokens = tc
	} else {
		a.Logger.Warn("tiktoken unavailable, approximating token counts", "error", err)
	}
	nb.Markdown = markdown.NewGenerator(chat, cfg.Markdown, tokens, a.Logger)
	nb.Reranker = llm.NewSimpleLLMReranker(chat, a.Logger)

	if transcriber == nil {
		a.Logger.Warn("provider has no transcription endpoint, audio is disabled", "provider", cfg.LLM.Provider)
		return nil
	}
	ff := audio.NewFFmpeg(cfg.Transcription.FFmpeg)
	if _, err := ff.Check(); err != nil {
		a.Logger.Warn("ffmpeg not found, audio uploads will fail", "error", err)
	}
	seg := audio.NewSegmenter(ff, cfg.Transcription.MaxSize, cfg.Transcription.ChunkSize, cfg.Transcription.TempDir)
	nb.Audio = transcription.NewPipeline(ff, seg, transcriber, a.Logger)
	return nil
}

func (a *App) wireYouTube() {
	cfg := a.Config.YouTube
	client := youtube.NewHTTPClient(time.Duration(cfg.Timeout) * time.Second)

	var sources []youtube.Source
	for _, name := range cfg.Sources {
		switch name {
		case "yt-dlp":
			sources = append(sources, youtube.NewYtDlpSource(cfg.YtDlp, client))
		case "timedtext":
			sources = append(sources, youtube.NewTimedTextSource(client))
		case "page":
			sources = append(sources, youtube.NewPageScrapeSource(client))
		default:
			a.Logger.Warn("unknown youtube transcript source", "source", name)
		}
	}
	a.Notebook.YouTube = youtube.NewFetcher(a.Logger, sources...)
}

func (a *App) wireMirror(ctx context.Context) error {
	cfg := a.Config.Memgraph
	if cfg.URI == "" {
		return nil
	}
	d, err := driver.NewMemgraphDriver(ctx, cfg.URI, cfg.User, cfg.Password, a.Logger)
	if err != nil {
		return fmt.Errorf("init graph mirror: %w", err)
	}
	a.closers = append(a.closers, d.Close)
	if err := d.BuildIndices(ctx); err != nil {
		return err
	}
	a.Notebook.Mirror = driver.NewMirror(d, a.Logger)
	return nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	a.closers = nil
	return errors.Join(errs...)
}
