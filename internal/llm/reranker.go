package llm

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var indexPattern = regexp.MustCompile(`\d+`)

const docPreviewRunes = 200

// SimpleLLMReranker orders documents by asking the model for a ranked index list.
type SimpleLLMReranker struct {
	LLM    LLMClient
	Logger *slog.Logger
}

func NewSimpleLLMReranker(client LLMClient, logger *slog.Logger) *SimpleLLMReranker {
	if logger == nil {
		logger = slog.Default()
	}
	return &SimpleLLMReranker{LLM: client, Logger: logger}
}

// Rank returns a permutation of document indices, most relevant first.
// On model failure the original order is returned.
func (r *SimpleLLMReranker) Rank(ctx context.Context, query string, docs []string) ([]int, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	if len(docs) == 1 {
		return []int{0}, nil
	}

	var docList strings.Builder
	for i, d := range docs {
		fmt.Fprintf(&docList, "[%d] %s\n", i, preview(d, docPreviewRunes))
	}

	prompt := fmt.Sprintf(`You are a search relevance optimization system.
Query: %s

Documents:
%s
Rank the documents above based on their relevance to the query.
Output ONLY the indices of the documents in order of relevance, separated by commas.
Example: 0, 2, 1
Do not output any other text.`, query, docList.String())

	resp, err := r.LLM.Generate(ctx, prompt)
	if err != nil {
		r.Logger.Warn("rerank failed, keeping original order", "error", err)
		return identity(len(docs)), nil
	}

	return parseIndices(resp, len(docs)), nil
}

// preview cuts s to at most n runes.
func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// parseIndices keeps the first occurrence of every valid index and appends
// whatever the model left out in original order.
func parseIndices(s string, n int) []int {
	seen := make([]bool, n)
	indices := make([]int, 0, n)
	for _, m := range indexPattern.FindAllString(s, -1) {
		i, err := strconv.Atoi(m)
		if err != nil || i < 0 || i >= n || seen[i] {
			continue
		}
		seen[i] = true
		indices = append(indices, i)
	}
	for i := 0; i < n; i++ {
		if !seen[i] {
			indices = append(indices, i)
		}
	}
	return indices
}

func identity(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return indices
}
