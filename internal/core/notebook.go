package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agenthands/notify/internal/core/graph"
	"github.com/agenthands/notify/internal/core/graphgen"
	"github.com/agenthands/notify/internal/core/markdown"
	"github.com/agenthands/notify/internal/core/model"
	"github.com/agenthands/notify/internal/core/pdf"
	"github.com/agenthands/notify/internal/core/transcription"
	"github.com/agenthands/notify/internal/core/youtube"
	"github.com/agenthands/notify/internal/llm"
	"github.com/agenthands/notify/internal/store"
)

var (
	ErrEmptyTranscript = errors.New("subject has no transcript")
	ErrNoGraph         = errors.New("subject has no graph")
	ErrNotConfigured   = errors.New("component not configured")
)

type AudioTranscriber interface {
	Run(ctx context.Context, src string, progress transcription.ProgressFunc) (*transcription.Result, error)
}

type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) (*model.YouTubeTranscript, error)
}

type GraphGenerator interface {
	Generate(ctx context.Context, transcript string, onProgress graphgen.ProgressFunc) (*graphgen.Result, error)
}

type MarkdownGenerator interface {
	Generate(ctx context.Context, transcript string, progress markdown.ProgressFunc) (string, error)
}

// GraphMirror receives every saved graph. Mirror failures are logged and
// never fail the operation that saved the graph.
type GraphMirror interface {
	SyncSubject(ctx context.Context, subjectID string, g *model.Graph) error
	DeleteSubject(ctx context.Context, subjectID string) error
}

// Notebook runs user actions end to end: ingest a source, produce a
// transcript, derive markdown and a graph, persist the results.
// Components left nil make the operations that need them fail with
// ErrNotConfigured.
type Notebook struct {
	Store     *store.Store
	Audio     AudioTranscriber
	YouTube   TranscriptFetcher
	Graphs    GraphGenerator
	Markdown  MarkdownGenerator
	Reranker  llm.RerankerClient
	Mirror    GraphMirror
	Clusterer *graph.LabelPropagationDetector
	Logger    *slog.Logger
}

func NewNotebook(st *store.Store, logger *slog.Logger) *Notebook {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notebook{
		Store:     st,
		Clusterer: graph.NewLabelPropagationDetector(),
		Logger:    logger,
	}
}

func notConfigured(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotConfigured)
}

// TranscribeAudio transcribes the audio file at path and stores the result as
// the subject's transcript.
func (n *Notebook) TranscribeAudio(ctx context.Context, subjectID, path string, progress transcription.ProgressFunc) (*model.Subject, error) {
	if n.Audio == nil {
		return nil, notConfigured("audio transcription")
	}
	if _, err := n.Store.GetSubject(ctx, subjectID); err != nil {
		return nil, err
	}

	res, err := n.Audio.Run(ctx, path, progress)
	if err != nil {
		return nil, err
	}
	if err := n.Store.SaveTranscript(ctx, subjectID, res.Text); err != nil {
		return nil, err
	}
	n.Logger.Info("saved audio transcript", "subject", subjectID, "segments", len(res.Segments), "chars", len(res.Text))
	return n.Store.GetSubject(ctx, subjectID)
}

// ImportYouTube fetches the transcript of a video given as URL or id and
// stores it on the subject together with the canonical video URL.
func (n *Notebook) ImportYouTube(ctx context.Context, subjectID, video string) (*model.YouTubeTranscript, error) {
	if n.YouTube == nil {
		return nil, notConfigured("youtube fetcher")
	}
	videoID, err := youtube.ExtractVideoID(video)
	if err != nil {
		return nil, err
	}
	if _, err := n.Store.GetSubject(ctx, subjectID); err != nil {
		return nil, err
	}

	t, err := n.YouTube.Fetch(ctx, videoID)
	if err != nil {
		return nil, err
	}
	url := "https://www.youtube.com/watch?v=" + videoID
	if err := n.Store.SaveYouTubeTranscript(ctx, subjectID, t.Text, url); err != nil {
		return nil, err
	}
	return t, nil
}

// GenerateGraph builds a graph from the subject's transcript, falling back to
// its markdown transcript. Unparseable output is returned with
// graphgen.ErrUnparseable and nothing is saved.
func (n *Notebook) GenerateGraph(ctx context.Context, subjectID string, onProgress graphgen.ProgressFunc) (*graphgen.Result, error) {
	sub, err := n.Store.GetSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	text := sub.Transcript
	if strings.TrimSpace(text) == "" {
		text = sub.MarkdownTranscript
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("subject %s: %w", subjectID, ErrEmptyTranscript)
	}
	return n.graphFromText(ctx, subjectID, text, onProgress)
}

func (n *Notebook) graphFromText(ctx context.Context, subjectID, text string, onProgress graphgen.ProgressFunc) (*graphgen.Result, error) {
	if n.Graphs == nil {
		return nil, notConfigured("graph generator")
	}
	res, err := n.Graphs.Generate(ctx, text, onProgress)
	if err != nil {
		return nil, err
	}
	if err := res.Err(); err != nil {
		return res, err
	}
	if err := n.SaveGraph(ctx, subjectID, res.Graph); err != nil {
		return nil, err
	}
	n.Logger.Info("saved graph", "subject", subjectID, "status", res.Status.String(),
		"nodes", len(res.Graph.Nodes), "links", len(res.Graph.Links), "warnings", len(res.Warnings))
	return res, nil
}

// SaveGraph stores g on the subject and mirrors it when a mirror is set.
func (n *Notebook) SaveGraph(ctx context.Context, subjectID string, g *model.Graph) error {
	if g != nil {
		g.Normalize()
	}
	if err := n.Store.SaveGraph(ctx, subjectID, g); err != nil {
		return err
	}
	if n.Mirror != nil {
		if err := n.Mirror.SyncSubject(ctx, subjectID, g); err != nil {
			n.Logger.Warn("failed to mirror graph", "subject", subjectID, "error", err)
		}
	}
	return nil
}

// GenerateMarkdown writes a markdown document from the subject's transcript
// and stores it as the markdown transcript.
func (n *Notebook) GenerateMarkdown(ctx context.Context, subjectID string, progress markdown.ProgressFunc) (string, error) {
	if n.Markdown == nil {
		return "", notConfigured("markdown generator")
	}
	sub, err := n.Store.GetSubject(ctx, subjectID)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(sub.Transcript) == "" {
		return "", fmt.Errorf("subject %s: %w", subjectID, ErrEmptyTranscript)
	}

	md, err := n.Markdown.Generate(ctx, sub.Transcript, progress)
	if err != nil {
		return "", err
	}
	if err := n.Store.SaveMarkdown(ctx, subjectID, md); err != nil {
		return "", err
	}
	return md, nil
}

type PDFResult struct {
	PDF   *model.PDF       `json:"pdf"`
	Graph *graphgen.Result `json:"-"`
}

// IngestPDF extracts the text of a PDF and stores it on the subject. When a
// markdown generator is configured the text is rewritten as markdown, and when
// a graph generator is configured a graph is built from that markdown.
func (n *Notebook) IngestPDF(ctx context.Context, subjectID, name string, data []byte, onProgress graphgen.ProgressFunc) (*PDFResult, error) {
	doc, err := pdf.Extract(data)
	if err != nil {
		return nil, err
	}
	rec, err := n.Store.CreatePDF(ctx, subjectID, name, doc.Text(), doc.Markdown())
	if err != nil {
		return nil, err
	}
	out := &PDFResult{PDF: rec}
	n.Logger.Info("stored pdf", "subject", subjectID, "pdf", rec.ID, "pages", len(doc.Pages))

	if n.Markdown == nil {
		return out, nil
	}
	md, err := n.Markdown.Generate(ctx, rec.Content, nil)
	if err != nil {
		return out, fmt.Errorf("pdf markdown: %w", err)
	}
	if err := n.Store.SavePDFMarkdown(ctx, rec.ID, md); err != nil {
		return out, err
	}
	rec.MarkdownContent = md

	if n.Graphs == nil {
		return out, nil
	}
	res, err := n.graphFromText(ctx, subjectID, md, onProgress)
	out.Graph = res
	if err != nil {
		return out, fmt.Errorf("pdf graph: %w", err)
	}
	return out, nil
}

// DeleteSubject removes the subject, its notes, PDFs and mirrored graph.
func (n *Notebook) DeleteSubject(ctx context.Context, subjectID string) error {
	if err := n.Store.DeleteSubject(ctx, subjectID); err != nil {
		return err
	}
	if n.Mirror != nil {
		if err := n.Mirror.DeleteSubject(ctx, subjectID); err != nil {
			n.Logger.Warn("failed to delete mirrored graph", "subject", subjectID, "error", err)
		}
	}
	return nil
}

// Clusters groups the subject's concepts into topics.
func (n *Notebook) Clusters(ctx context.Context, subjectID string) ([]graph.Cluster, error) {
	sub, err := n.Store.GetSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if sub.Graph == nil || len(sub.Graph.Nodes) == 0 {
		return nil, fmt.Errorf("subject %s: %w", subjectID, ErrNoGraph)
	}
	return n.Clusterer.Detect(sub.Graph), nil
}
