package audio

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

var ErrUnexpectedFormat = errors.New("unexpected audio format")

// Format describes the PCM layout of a WAV file.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Size       int64
}

// ProbeWAV reads the WAV header of path.
func ProbeWAV(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Format{}, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Format{}, fmt.Errorf("stat wav: %w", err)
	}

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return Format{}, fmt.Errorf("%w: %s is not a valid WAV file", ErrUnexpectedFormat, path)
	}

	return Format{
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
		Size:       info.Size(),
	}, nil
}

// RequirePCM16Mono fails unless f is 16 kHz mono 16-bit, the layout every
// byte offset in this package assumes.
func RequirePCM16Mono(f Format) error {
	if f.SampleRate != 16000 || f.Channels != 1 || f.BitDepth != 16 {
		return fmt.Errorf("%w: got %d Hz, %d channel(s), %d-bit; want 16000 Hz mono 16-bit",
			ErrUnexpectedFormat, f.SampleRate, f.Channels, f.BitDepth)
	}
	return nil
}
