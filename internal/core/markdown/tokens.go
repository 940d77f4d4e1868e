package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

type TokenCounter interface {
	CountTokens(text string) int
}

// TiktokenCounter counts cl100k_base tokens.
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

func NewTiktokenCounter() (*TiktokenCounter, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding: %w", err)
	}
	return &TiktokenCounter{encoding: enc}, nil
}

func (t *TiktokenCounter) CountTokens(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}

// ApproxCounter assumes four characters per token. It is used when the
// tiktoken vocabulary cannot be loaded.
type ApproxCounter struct{}

func (ApproxCounter) CountTokens(text string) int {
	return (len(text) + 3) / 4
}

var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]*`)

// Split cuts text into chunks of at most maxTokens tokens on sentence
// boundaries. A single sentence above the budget becomes its own chunk.
func Split(text string, maxTokens int, counter TokenCounter) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if maxTokens <= 0 || counter.CountTokens(text) <= maxTokens {
		return []string{text}
	}

	var (
		chunks  []string
		current strings.Builder
	)
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
	}

	for _, sentence := range sentencePattern.FindAllString(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		candidate := sentence
		if current.Len() > 0 {
			candidate = current.String() + " " + sentence
		}
		if counter.CountTokens(candidate) > maxTokens && current.Len() > 0 {
			flush()
			candidate = sentence
		}
		current.Reset()
		current.WriteString(candidate)
	}
	flush()
	return chunks
}
