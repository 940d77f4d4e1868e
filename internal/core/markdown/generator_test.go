package markdown

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/notify/internal/config"
	"github.com/agenthands/notify/internal/llm"
)

// wordCounter counts whitespace separated words.
type wordCounter struct{}

func (wordCounter) CountTokens(text string) int {
	return len(strings.Fields(text))
}

func TestSplit(t *testing.T) {
	text := "One two three. Four five six! Seven eight? Nine ten eleven twelve thirteen."

	chunks := Split(text, 6, wordCounter{})
	assert.Equal(t, []string{
		"One two three. Four five six!",
		"Seven eight?",
		"Nine ten eleven twelve thirteen.",
	}, chunks)

	assert.Equal(t, []string{text}, Split(text, 100, wordCounter{}))
	assert.Nil(t, Split("   ", 10, wordCounter{}))
}

func TestSplit_OversizedSentenceStandsAlone(t *testing.T) {
	chunks := Split("a b c d e f g. h.", 3, wordCounter{})
	assert.Equal(t, []string{"a b c d e f g.", "h."}, chunks)
}

func TestSystemPrompt(t *testing.T) {
	first := SystemPrompt("", true, false)
	assert.Contains(t, first, "summary section")
	assert.NotContains(t, first, "references section")

	last := SystemPrompt("", false, true)
	assert.Contains(t, last, "references section")
	assert.NotContains(t, last, "summary section")

	assert.True(t, strings.HasPrefix(SystemPrompt("custom", false, false), "custom"))
}

func TestGenerate_FlagsFirstAndLastChunk(t *testing.T) {
	client := &llm.MockClient{ResponseQueue: []string{"## Part A", "## Part B", "## Part C"}}
	cfg := config.MarkdownConfig{Model: "gpt-4o-mini", Temperature: 0.5, MaxTokens: 1500, ChunkTokens: 3}
	g := NewGenerator(client, cfg, wordCounter{}, nil)

	var done []int
	md, err := g.Generate(context.Background(), "a b c. d e f. g h i.", func(d, total int) {
		done = append(done, d)
		assert.Equal(t, 3, total)
	})
	require.NoError(t, err)
	assert.Equal(t, "## Part A\n\n## Part B\n\n## Part C", md)
	assert.Equal(t, []int{1, 2, 3}, done)

	require.Len(t, client.Requests, 3)
	assert.Contains(t, client.Requests[0].System, "summary section")
	assert.NotContains(t, client.Requests[1].System, "summary section")
	assert.NotContains(t, client.Requests[1].System, "references section")
	assert.Contains(t, client.Requests[2].System, "references section")
	assert.Equal(t, "d e f.", client.Requests[1].User)
	assert.Equal(t, 1500, client.Requests[0].MaxTokens)
}

func TestGenerate_SingleChunkGetsBothSections(t *testing.T) {
	client := &llm.MockClient{Response: "  # Doc  "}
	g := NewGenerator(client, config.MarkdownConfig{}, nil, nil)

	md, err := g.Generate(context.Background(), "short transcript", nil)
	require.NoError(t, err)
	assert.Equal(t, "# Doc", md)
	assert.Contains(t, client.Requests[0].System, "summary section")
	assert.Contains(t, client.Requests[0].System, "references section")
}

func TestGenerate_Error(t *testing.T) {
	g := NewGenerator(&llm.MockClient{Err: errors.New("quota")}, config.MarkdownConfig{}, nil, nil)
	_, err := g.Generate(context.Background(), "text", nil)
	assert.ErrorContains(t, err, "quota")
}
