package youtube

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os/exec"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/agenthands/notify/internal/core/model"
)

// CommandRunner runs an external program and returns its stdout.
type CommandRunner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// YtDlpSource asks yt-dlp for the video metadata and downloads the English
// json3 subtitles it lists, preferring manual over automatic captions.
type YtDlpSource struct {
	Path   string
	Runner CommandRunner
	Client *http.Client
}

func NewYtDlpSource(path string, client *http.Client) *YtDlpSource {
	if path == "" {
		path = "yt-dlp"
	}
	return &YtDlpSource{Path: path, Runner: execRunner{}, Client: client}
}

func (s *YtDlpSource) Name() string { return "yt-dlp" }

func (s *YtDlpSource) Fetch(ctx context.Context, videoID string) (*model.YouTubeTranscript, error) {
	out, err := s.Runner.Output(ctx, s.Path,
		"--write-auto-sub",
		"--sub-format", "json3",
		"--skip-download",
		"--dump-single-json",
		"--no-warnings",
		"--quiet",
		"https://youtu.be/"+videoID,
	)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(out) {
		return nil, fmt.Errorf("yt-dlp returned invalid JSON")
	}

	url := gjson.GetBytes(out, `subtitles.en.#(ext=="json3").url`).String()
	if url == "" {
		url = gjson.GetBytes(out, `automatic_captions.en.#(ext=="json3").url`).String()
	}
	if url == "" {
		return nil, fmt.Errorf("no English json3 subtitles listed")
	}

	data, err := get(ctx, s.Client, url)
	if err != nil {
		return nil, fmt.Errorf("download subtitles: %w", err)
	}
	return parseJSON3(data, s.Name())
}
