package llm

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank_UsesModelOrder(t *testing.T) {
	r := NewSimpleLLMReranker(&MockClient{Response: "2, 0, 1"}, nil)
	got, err := r.Rank(context.Background(), "graphs", []string{"a", "b", "c"})
	assert.NoError(t, err)
	assert.Equal(t, []int{2, 0, 1}, got)
}

func TestRank_FallsBackOnError(t *testing.T) {
	var logs bytes.Buffer
	r := NewSimpleLLMReranker(&MockClient{Err: errors.New("down")}, slog.New(slog.NewTextHandler(&logs, nil)))
	got, err := r.Rank(context.Background(), "q", []string{"a", "b", "c"})
	assert.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, got)
	assert.Contains(t, logs.String(), "rerank failed")
}

func TestRank_TrivialInputs(t *testing.T) {
	r := NewSimpleLLMReranker(&MockClient{}, nil)
	got, err := r.Rank(context.Background(), "q", nil)
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = r.Rank(context.Background(), "q", []string{"only"})
	assert.NoError(t, err)
	assert.Equal(t, []int{0}, got)
}

func TestParseIndices(t *testing.T) {
	assert.Equal(t, []int{1, 0, 2}, parseIndices("1, 1, 7, 0", 3))
	assert.Equal(t, []int{0, 1}, parseIndices("no idea", 2))
}

func TestRank_PreviewKeepsRunesWhole(t *testing.T) {
	client := &MockClient{Response: "1, 0"}
	r := NewSimpleLLMReranker(client, nil)
	// 199 ASCII bytes then two-byte runes straddle the 200 byte mark.
	long := strings.Repeat("a", 199) + strings.Repeat("é", 50)

	_, err := r.Rank(context.Background(), "q", []string{long, "short"})
	assert.NoError(t, err)
	require.Len(t, client.Requests, 1)
	prompt := client.Requests[0].User
	assert.True(t, utf8.ValidString(prompt))
	assert.Contains(t, prompt, "[0] "+strings.Repeat("a", 199)+"é...")
}
