package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

var ErrFFmpegNotFound = errors.New("ffmpeg not found")

// Converter rewrites any input audio as 16 kHz mono 16-bit PCM WAV.
type Converter interface {
	Convert(ctx context.Context, src, dst string) error
}

// Trimmer cuts [start, start+duration) of src into a new WAV file at dst.
type Trimmer interface {
	Trim(ctx context.Context, src, dst string, start, duration time.Duration) error
}

// FFmpeg shells out to the ffmpeg binary. It implements Converter and Trimmer.
type FFmpeg struct {
	Path string
}

func NewFFmpeg(path string) *FFmpeg {
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpeg{Path: path}
}

// Check resolves the binary, returning ErrFFmpegNotFound when it is missing.
func (f *FFmpeg) Check() (string, error) {
	p, err := exec.LookPath(f.Path)
	if err != nil {
		return "", fmt.Errorf("%w at %q: %v", ErrFFmpegNotFound, f.Path, err)
	}
	return p, nil
}

func (f *FFmpeg) Convert(ctx context.Context, src, dst string) error {
	// ffmpeg -y -i input -ac 1 -ar 16000 -sample_fmt s16 -f wav output
	return f.run(ctx,
		"-y", "-i", src,
		"-ac", "1", "-ar", "16000",
		"-sample_fmt", "s16",
		"-f", "wav",
		dst,
	)
}

func (f *FFmpeg) Trim(ctx context.Context, src, dst string, start, duration time.Duration) error {
	return f.run(ctx,
		"-y",
		"-ss", seconds(start),
		"-t", seconds(duration),
		"-i", src,
		"-ac", "1", "-ar", "16000",
		"-f", "wav",
		dst,
	)
}

func (f *FFmpeg) run(ctx context.Context, args ...string) error {
	bin, err := f.Check()
	if err != nil {
		return err
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, append([]string{"-hide_banner", "-loglevel", "error"}, args...)...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("ffmpeg: %w", err)
		}
		return fmt.Errorf("ffmpeg: %w: %s", err, msg)
	}
	return nil
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

// Offset converts a byte offset in 16 kHz mono 16-bit audio into a time offset.
func Offset(bytes int64) time.Duration {
	return time.Duration(bytes) * time.Second / 32000
}
