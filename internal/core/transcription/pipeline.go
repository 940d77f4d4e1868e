// Package transcription turns an audio file of any size into one transcript.
package transcription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/agenthands/notify/internal/core/audio"
	"github.com/agenthands/notify/internal/core/model"
	"github.com/agenthands/notify/internal/core/stitch"
	"github.com/agenthands/notify/internal/llm"
)

var ErrNoAudio = errors.New("audio is shorter than one second")

// ProgressFunc is called after every transcribed chunk.
type ProgressFunc func(done, total int)

type Result struct {
	Text     string
	Segments []model.TranscriptSegment
}

// Pipeline normalizes the input, plans chunks, transcribes them one at a time
// and stitches the texts. The first failing chunk aborts the run and no
// partial transcript is returned.
type Pipeline struct {
	Converter   audio.Converter
	Segmenter   *audio.Segmenter
	Transcriber llm.Transcriber
	Logger      *slog.Logger
}

func NewPipeline(converter audio.Converter, segmenter *audio.Segmenter, transcriber llm.Transcriber, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		Converter:   converter,
		Segmenter:   segmenter,
		Transcriber: transcriber,
		Logger:      logger,
	}
}

func (p *Pipeline) Run(ctx context.Context, src string, progress ProgressFunc) (*Result, error) {
	normalized := filepath.Join(p.tempDir(), fmt.Sprintf("normalized_%s.wav", uuid.NewString()))
	defer p.remove(normalized)

	if err := p.Converter.Convert(ctx, src, normalized); err != nil {
		return nil, fmt.Errorf("convert audio: %w", err)
	}

	format, err := audio.ProbeWAV(normalized)
	if err != nil {
		return nil, err
	}
	if err := audio.RequirePCM16Mono(format); err != nil {
		return nil, err
	}

	chunks := p.Segmenter.Plan(format.Size)
	if len(chunks) == 0 {
		return nil, ErrNoAudio
	}
	p.Logger.Info("transcribing audio", "bytes", format.Size, "chunks", len(chunks))

	var (
		st       stitch.Stitcher
		segments = make([]model.TranscriptSegment, 0, len(chunks))
	)
	for _, c := range chunks {
		text, err := p.transcribeChunk(ctx, normalized, c, len(chunks))
		if err != nil {
			return nil, fmt.Errorf("transcribe chunk %d/%d: %w", c.Index+1, len(chunks), err)
		}
		st.Add(text)
		segments = append(segments, model.TranscriptSegment{Index: c.Index, Text: text, LastNumber: st.LastNumber()})
		if progress != nil {
			progress(c.Index+1, len(chunks))
		}
	}

	return &Result{Text: st.String(), Segments: segments}, nil
}

// transcribeChunk owns the temp file of one chunk. A plan with a single chunk
// sends the normalized file as is.
func (p *Pipeline) transcribeChunk(ctx context.Context, normalized string, c model.AudioChunk, total int) (string, error) {
	if total == 1 {
		return p.Transcriber.Transcribe(ctx, normalized)
	}

	c, err := p.Segmenter.Materialize(ctx, normalized, c)
	if err != nil {
		return "", err
	}
	defer p.remove(c.Path)

	p.Logger.Debug("transcribing chunk", "index", c.Index, "start", c.Start, "end", c.End)
	return p.Transcriber.Transcribe(ctx, c.Path)
}

func (p *Pipeline) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		p.Logger.Warn("failed to remove temp file", "path", path, "error", err)
	}
}

func (p *Pipeline) tempDir() string {
	if p.Segmenter != nil && p.Segmenter.TempDir != "" {
		return p.Segmenter.TempDir
	}
	return os.TempDir()
}
