package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/agenthands/notify/internal/core/model"
)

// Segmenter plans chunks for a normalized audio file and writes each one to
// its own temporary file on demand.
type Segmenter struct {
	MaxSize   int64
	ChunkSize int64
	TempDir   string
	Trimmer   Trimmer
}

func NewSegmenter(trimmer Trimmer, maxSize, chunkSize int64, tempDir string) *Segmenter {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Segmenter{
		MaxSize:   maxSize,
		ChunkSize: chunkSize,
		TempDir:   tempDir,
		Trimmer:   trimmer,
	}
}

func (s *Segmenter) Plan(size int64) []model.AudioChunk {
	return Plan(size, s.MaxSize, s.ChunkSize)
}

// Materialize cuts chunk c out of src. The returned chunk carries the temp file
// path; the caller owns it and must remove it.
func (s *Segmenter) Materialize(ctx context.Context, src string, c model.AudioChunk) (model.AudioChunk, error) {
	dir := s.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	dst := filepath.Join(dir, fmt.Sprintf("chunk_%d_%s.wav", c.Index, uuid.NewString()))

	if err := s.Trimmer.Trim(ctx, src, dst, Offset(c.Start), Offset(c.Len())); err != nil {
		// ffmpeg may leave a partial file behind.
		_ = os.Remove(dst)
		return c, fmt.Errorf("trim chunk %d: %w", c.Index, err)
	}
	c.Path = dst
	return c, nil
}
