package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/notify/internal/core/model"
	"github.com/agenthands/notify/internal/core/transcription"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockAudio struct {
	Result *transcription.Result
	Err    error
	Paths  []string
}

func (m *MockAudio) Run(ctx context.Context, src string, progress transcription.ProgressFunc) (*transcription.Result, error) {
	m.Paths = append(m.Paths, src)
	if m.Err != nil {
		return nil, m.Err
	}
	if progress != nil {
		progress(1, 1)
	}
	return m.Result, nil
}

type MockSource struct {
	Transcript *model.YouTubeTranscript
	Err        error
	Calls      []string
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Fetch(ctx context.Context, videoID string) (*model.YouTubeTranscript, error) {
	m.Calls = append(m.Calls, videoID)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Transcript, nil
}

type MockMirror struct {
	Synced  map[string]*model.Graph
	Deleted []string
	Err     error
}

func (m *MockMirror) SyncSubject(ctx context.Context, subjectID string, g *model.Graph) error {
	if m.Err != nil {
		return m.Err
	}
	if m.Synced == nil {
		m.Synced = map[string]*model.Graph{}
	}
	m.Synced[subjectID] = g
	return nil
}

func (m *MockMirror) DeleteSubject(ctx context.Context, subjectID string) error {
	m.Deleted = append(m.Deleted, subjectID)
	return m.Err
}

type MockReranker struct {
	Order []int
	Err   error
}

func (m *MockReranker) Rank(ctx context.Context, query string, docs []string) ([]int, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Order, nil
}

// wavConverter writes a silent 16 kHz mono WAV of the given length instead of
// running ffmpeg.
type wavConverter struct {
	samples int
}

func (c *wavConverter) Convert(ctx context.Context, src, dst string) error {
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	enc := wav.NewEncoder(f, 16000, 16, 1, 1)
	err = enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 16000},
		Data:           make([]int, c.samples),
		SourceBitDepth: 16,
	})
	if err == nil {
		err = enc.Close()
	}
	return errors.Join(err, f.Close())
}

type fileTrimmer struct {
	starts []time.Duration
}

func (t *fileTrimmer) Trim(ctx context.Context, src, dst string, start, duration time.Duration) error {
	t.starts = append(t.starts, start)
	return os.WriteFile(dst, []byte("chunk"), 0o600)
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}
