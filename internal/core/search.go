package core

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/agenthands/notify/internal/core/model"
)

const snippetRadius = 80

// SearchSubjects finds subjects whose name or transcripts contain query and
// orders them with the reranker when one is set.
func (n *Notebook) SearchSubjects(ctx context.Context, workspaceID, query string, limit int) ([]model.SearchResult, error) {
	subjects, err := n.Store.SearchSubjects(ctx, workspaceID, query, limit)
	if err != nil {
		return nil, err
	}

	docs := make([]string, len(subjects))
	results := make([]model.SearchResult, len(subjects))
	for i, s := range subjects {
		snippet := snippetOf(s, query)
		docs[i] = s.Name + ": " + snippet
		results[i] = model.SearchResult{SubjectID: s.ID, Name: s.Name, Snippet: snippet}
	}

	order := identityOrder(len(results))
	if n.Reranker != nil && len(results) > 1 {
		ranked, err := n.Reranker.Rank(ctx, query, docs)
		if err != nil {
			n.Logger.Warn("rerank failed", "error", err)
		} else if len(ranked) == len(results) {
			order = ranked
		}
	}

	out := make([]model.SearchResult, 0, len(results))
	for rank, i := range order {
		r := results[i]
		r.Rank = rank + 1
		out = append(out, r)
	}
	return out, nil
}

func identityOrder(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// snippetOf returns the text around the first match of query in the
// transcript, the markdown transcript, or the start of the transcript.
func snippetOf(s model.Subject, query string) string {
	for _, text := range []string{s.Transcript, s.MarkdownTranscript} {
		if snip, ok := around(text, query); ok {
			return snip
		}
	}
	return clip(s.Transcript, 2*snippetRadius)
}

func around(text, query string) (string, bool) {
	if query == "" {
		return "", false
	}
	i, j := indexFold(text, query)
	if i < 0 {
		return "", false
	}
	start := max(0, i-snippetRadius)
	end := min(len(text), j+snippetRadius)
	// Keep slice bounds on rune boundaries.
	for start > 0 && !isRuneStart(text[start]) {
		start--
	}
	for end < len(text) && !isRuneStart(text[end]) {
		end++
	}
	snip := strings.TrimSpace(text[start:end])
	if start > 0 {
		snip = "..." + snip
	}
	if end < len(text) {
		snip += "..."
	}
	return snip, true
}

// indexFold returns the byte span of the first case-insensitive match of query
// in text. Offsets refer to text itself, whose case folding may change byte
// lengths.
func indexFold(text, query string) (int, int) {
	n := utf8.RuneCountInString(query)
	for i := range text {
		j := i
		for k := 0; k < n && j < len(text); k++ {
			_, size := utf8.DecodeRuneInString(text[j:])
			j += size
		}
		if strings.EqualFold(text[i:j], query) {
			return i, j
		}
	}
	return -1, -1
}

func clip(text string, n int) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n]) + "..."
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
