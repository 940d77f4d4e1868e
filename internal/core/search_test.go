package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchSubjects(t *testing.T) {
	nb, sub := newTestNotebook(t)
	ctx := context.Background()
	require.NoError(t, nb.Store.SaveTranscript(ctx, sub.ID, "The membrane of the cell controls transport."))
	proteins, err := nb.Store.CreateSubject(ctx, "w1", "Membrane proteins")
	require.NoError(t, err)

	res, err := nb.SearchSubjects(ctx, "w1", "membrane", 10)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, 1, res[0].Rank)
	assert.Equal(t, 2, res[1].Rank)

	nb.Reranker = &MockReranker{Order: []int{1, 0}}
	reranked, err := nb.SearchSubjects(ctx, "w1", "membrane", 10)
	require.NoError(t, err)
	require.Len(t, reranked, 2)
	assert.Equal(t, res[1].SubjectID, reranked[0].SubjectID)
	assert.Equal(t, res[0].SubjectID, reranked[1].SubjectID)

	var biology string
	for _, r := range res {
		if r.SubjectID == sub.ID {
			biology = r.Snippet
		}
	}
	assert.Contains(t, biology, "membrane of the cell")
	assert.ElementsMatch(t, []string{sub.ID, proteins.ID}, []string{res[0].SubjectID, res[1].SubjectID})
}

func TestSearchSubjects_RerankFailureKeepsOrder(t *testing.T) {
	nb, _ := newTestNotebook(t)
	ctx := context.Background()
	for _, name := range []string{"Cell A", "Cell B"} {
		_, err := nb.Store.CreateSubject(ctx, "w1", name)
		require.NoError(t, err)
	}
	nb.Reranker = &MockReranker{Err: errors.New("rate limited")}

	res, err := nb.SearchSubjects(ctx, "w1", "cell", 10)
	require.NoError(t, err)
	assert.Len(t, res, 2)
}

func TestSnippet(t *testing.T) {
	long := "intro text that is long enough to be clipped on the left side of the match, " +
		"so the keyword appears here and then more text follows on the right side of the match for a while longer."

	snip, ok := around(long, "KEYWORD")
	require.True(t, ok)
	assert.Contains(t, snip, "keyword")
	assert.True(t, len(snip) < len(long))

	_, ok = around(long, "absent")
	assert.False(t, ok)
}

func TestSnippet_FoldsWithoutShiftingOffsets(t *testing.T) {
	// "İ" lowercases to three bytes, so offsets into a lowercased copy drift.
	text := strings.Repeat("İ", 120) + " the mitochondria produce energy " + strings.Repeat("x", 200)

	snip, ok := around(text, "MITOCHONDRIA")
	require.True(t, ok)
	assert.Contains(t, snip, "the mitochondria produce energy")
	assert.True(t, utf8.ValidString(snip))

	i, j := indexFold("Straße İstanbul", "İSTANBUL")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, "İstanbul", "Straße İstanbul"[i:j])
}
