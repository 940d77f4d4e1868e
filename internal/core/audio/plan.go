package audio

import "github.com/agenthands/notify/internal/core/model"

const (
	DefaultMaxSize   int64 = 25 * 1024 * 1024
	DefaultChunkSize int64 = 20 * 1024 * 1024
)

// Plan splits a file of size bytes into overlapping chunks. Files no larger
// than maxSize yield a single chunk covering the whole file. Otherwise there are
// ceil(size/chunkSize) candidates, each interior boundary widened by
// model.OverlapBytes on both sides, and candidates shorter than one second of
// audio are dropped.
func Plan(size, maxSize, chunkSize int64) []model.AudioChunk {
	if size <= 0 {
		return nil
	}
	if size <= maxSize || chunkSize <= 0 {
		return []model.AudioChunk{{Index: 0, Start: 0, End: size}}
	}

	n := (size + chunkSize - 1) / chunkSize
	chunks := make([]model.AudioChunk, 0, n)
	for i := int64(0); i < n; i++ {
		start := i * chunkSize
		end := min(start+chunkSize, size)

		if i > 0 {
			start = max(0, start-model.OverlapBytes)
		}
		if i < n-1 {
			end = min(end+model.OverlapBytes, size)
		}
		if end-start < model.BytesPerSecond {
			continue
		}
		chunks = append(chunks, model.AudioChunk{Index: len(chunks), Start: start, End: end})
	}
	return chunks
}
