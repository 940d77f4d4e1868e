package transcription

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreaudio "github.com/agenthands/notify/internal/core/audio"
	"github.com/agenthands/notify/internal/llm"
)

type fakeConverter struct {
	wav   []byte
	calls int
}

func (f *fakeConverter) Convert(ctx context.Context, src, dst string) error {
	f.calls++
	return os.WriteFile(dst, f.wav, 0o600)
}

type fakeTrimmer struct {
	starts []time.Duration
	durs   []time.Duration
}

func (f *fakeTrimmer) Trim(ctx context.Context, src, dst string, start, duration time.Duration) error {
	f.starts = append(f.starts, start)
	f.durs = append(f.durs, duration)
	return os.WriteFile(dst, []byte("chunk"), 0o600)
}

func encodeWAV(t *testing.T, sampleRate, channels, samples int) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, samples*channels),
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func newTestPipeline(t *testing.T, wavData []byte, maxSize, chunkSize int64, tr *llm.MockClient) (*Pipeline, *fakeTrimmer, string) {
	t.Helper()
	dir := t.TempDir()
	trimmer := &fakeTrimmer{}
	seg := coreaudio.NewSegmenter(trimmer, maxSize, chunkSize, dir)
	return NewPipeline(&fakeConverter{wav: wavData}, seg, tr, nil), trimmer, dir
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp files left behind")
}

func TestPipeline_ThreeChunksStitchedInOrder(t *testing.T) {
	// 450,044 bytes with a 200,000 byte chunk size gives three chunks.
	data := encodeWAV(t, 16000, 1, 225000)
	tr := &llm.MockClient{Transcripts: []string{"intro 1 2 3", "2 3 and 1", "then 4 5"}}
	p, trimmer, dir := newTestPipeline(t, data, 250000, 200000, tr)

	var progress [][2]int
	res, err := p.Run(context.Background(), "lecture.m4a", func(done, total int) {
		progress = append(progress, [2]int{done, total})
	})
	require.NoError(t, err)

	assert.Equal(t, "intro 1 2 3 and then 4 5", res.Text)
	require.Len(t, res.Segments, 3)
	assert.Equal(t, "2 3 and 1", res.Segments[1].Text)
	// The second chunk ends in 1 but the carried number stays at 3.
	var carried []int
	for _, s := range res.Segments {
		carried = append(carried, s.LastNumber)
	}
	assert.Equal(t, []int{3, 3, 5}, carried)

	assert.Len(t, tr.TranscribeCalls, 3)
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, progress)

	// Interior boundaries are widened by one second on each side.
	require.Len(t, trimmer.starts, 3)
	assert.Equal(t, time.Duration(0), trimmer.starts[0])
	assert.Equal(t, coreaudio.Offset(200000-32000), trimmer.starts[1])
	assert.Equal(t, coreaudio.Offset(200000+2*32000), trimmer.durs[1])

	assertEmptyDir(t, dir)
}

func TestPipeline_SmallFileSentWhole(t *testing.T) {
	data := encodeWAV(t, 16000, 1, 32000)
	tr := &llm.MockClient{Transcripts: []string{"  hello   world "}}
	p, trimmer, dir := newTestPipeline(t, data, 0, 0, tr)

	res, err := p.Run(context.Background(), "memo.mp3", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello world", res.Text)
	assert.Empty(t, trimmer.starts)
	require.Len(t, tr.TranscribeCalls, 1)
	assert.Contains(t, filepath.Base(tr.TranscribeCalls[0]), "normalized_")

	assertEmptyDir(t, dir)
}

func TestPipeline_ChunkFailureAbortsAndCleansUp(t *testing.T) {
	data := encodeWAV(t, 16000, 1, 225000)
	tr := &llm.MockClient{
		Transcripts:    []string{"one", "two", "three"},
		TranscribeErrs: map[int]error{1: errors.New("rate limited")},
	}
	p, _, dir := newTestPipeline(t, data, 250000, 200000, tr)

	res, err := p.Run(context.Background(), "in.wav", nil)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "chunk 2/3")
	assert.Contains(t, err.Error(), "rate limited")
	assert.Len(t, tr.TranscribeCalls, 2)

	assertEmptyDir(t, dir)
}

func TestPipeline_RejectsUnconvertedAudio(t *testing.T) {
	data := encodeWAV(t, 44100, 2, 4410)
	tr := &llm.MockClient{}
	p, _, dir := newTestPipeline(t, data, 0, 0, tr)

	_, err := p.Run(context.Background(), "in.wav", nil)
	assert.ErrorIs(t, err, coreaudio.ErrUnexpectedFormat)
	assert.Empty(t, tr.TranscribeCalls)
	assertEmptyDir(t, dir)
}

func TestPipeline_TooShort(t *testing.T) {
	data := encodeWAV(t, 16000, 1, 100)
	tr := &llm.MockClient{}
	p, _, _ := newTestPipeline(t, data, 100, 1000, tr)

	_, err := p.Run(context.Background(), "in.wav", nil)
	assert.ErrorIs(t, err, ErrNoAudio)
}
