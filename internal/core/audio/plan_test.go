package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/notify/internal/core/model"
)

const mib = 1024 * 1024

func TestPlan_SingleChunkUnderMaxSize(t *testing.T) {
	for _, size := range []int64{1, 1000, DefaultMaxSize} {
		chunks := Plan(size, DefaultMaxSize, DefaultChunkSize)
		require.Len(t, chunks, 1)
		assert.Equal(t, int64(0), chunks[0].Start)
		assert.Equal(t, size, chunks[0].End)
	}
}

func TestPlan_EmptyFile(t *testing.T) {
	assert.Empty(t, Plan(0, DefaultMaxSize, DefaultChunkSize))
}

func TestPlan_FortyFiveMiB(t *testing.T) {
	size := int64(45 * mib)
	chunks := Plan(size, DefaultMaxSize, DefaultChunkSize)
	require.Len(t, chunks, 3)

	o := int64(model.OverlapBytes)
	assert.Equal(t, model.AudioChunk{Index: 0, Start: 0, End: 20*mib + o}, chunks[0])
	assert.Equal(t, model.AudioChunk{Index: 1, Start: 20*mib - o, End: 40*mib + o}, chunks[1])
	assert.Equal(t, model.AudioChunk{Index: 2, Start: 40*mib - o, End: size}, chunks[2])
}

func TestPlan_CandidateCountAndBounds(t *testing.T) {
	sizes := []int64{
		DefaultMaxSize + 1,
		40 * mib,
		40*mib + 1,
		61*mib + 12345,
		200 * mib,
	}
	for _, size := range sizes {
		chunks := Plan(size, DefaultMaxSize, DefaultChunkSize)
		want := int((size + DefaultChunkSize - 1) / DefaultChunkSize)
		assert.Len(t, chunks, want, "size %d", size)

		for i, c := range chunks {
			assert.Equal(t, i, c.Index)
			assert.GreaterOrEqual(t, c.Start, int64(0))
			assert.LessOrEqual(t, c.End, size)
			assert.GreaterOrEqual(t, c.Len(), int64(model.BytesPerSecond))
		}
		assert.Equal(t, int64(0), chunks[0].Start)
		assert.Equal(t, size, chunks[len(chunks)-1].End)
	}
}

func TestPlan_DropsSubSecondRanges(t *testing.T) {
	// maxSize below chunkSize leaves a single candidate shorter than one second.
	chunks := Plan(20000, 10000, 50000)
	assert.Empty(t, chunks)

	chunks = Plan(40000, 10000, 50000)
	require.Len(t, chunks, 1)
	assert.Equal(t, int64(40000), chunks[0].End)
}

func TestPlan_OverlapClampedToFileBounds(t *testing.T) {
	// Last range is tiny; its widened start must stay inside the file.
	size := int64(2*model.BytesPerSecond + 10)
	chunks := Plan(size, 1, model.BytesPerSecond)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.GreaterOrEqual(t, c.Start, int64(0))
		assert.LessOrEqual(t, c.End, size)
	}
}
