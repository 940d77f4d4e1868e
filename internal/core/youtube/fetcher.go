// Package youtube fetches caption transcripts for YouTube videos by trying an
// ordered list of sources.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/agenthands/notify/internal/core/model"
)

var (
	ErrNoTranscript   = errors.New("no transcript available for this video")
	ErrInvalidVideoID = errors.New("invalid YouTube video id")
)

var (
	videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	videoURL       = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|shorts/|watch\?v=|&v=)([^#&?]*).*`)
)

// Source is one way of obtaining a transcript.
type Source interface {
	Name() string
	Fetch(ctx context.Context, videoID string) (*model.YouTubeTranscript, error)
}

type Fetcher struct {
	Sources []Source
	Logger  *slog.Logger
}

func NewFetcher(logger *slog.Logger, sources ...Source) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{Sources: sources, Logger: logger}
}

// Fetch returns the transcript of the first source that succeeds. Individual
// failures are logged; callers only ever see ErrNoTranscript.
func (f *Fetcher) Fetch(ctx context.Context, videoID string) (*model.YouTubeTranscript, error) {
	if !ValidVideoID(videoID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVideoID, videoID)
	}

	for _, src := range f.Sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := src.Fetch(ctx, videoID)
		if err != nil {
			f.Logger.Warn("transcript source failed", "source", src.Name(), "video_id", videoID, "error", err)
			continue
		}
		if t == nil || t.Text == "" {
			f.Logger.Warn("transcript source returned nothing", "source", src.Name(), "video_id", videoID)
			continue
		}
		if t.Method == "" {
			t.Method = src.Name()
		}
		f.Logger.Info("fetched transcript", "source", src.Name(), "video_id", videoID, "chars", len(t.Text))
		return t, nil
	}
	return nil, ErrNoTranscript
}

func ValidVideoID(id string) bool {
	return videoIDPattern.MatchString(id)
}

// ExtractVideoID accepts a bare id or any of the usual watch, share and embed
// URL forms.
func ExtractVideoID(s string) (string, error) {
	if ValidVideoID(s) {
		return s, nil
	}
	m := videoURL.FindStringSubmatch(s)
	if len(m) == 3 && ValidVideoID(m[2]) {
		return m[2], nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidVideoID, s)
}
