package common

import (
	"encoding/json"
	"fmt"
	"strings"
)

func stripFences(response string) string {
	s := strings.TrimSpace(response)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// CleanJSON strips markdown code fences and returns the outermost {...} span
// of an LLM response. When no opening brace exists the trimmed input is returned.
func CleanJSON(response string) string {
	s := stripFences(response)
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return s
	}
	end := strings.LastIndexByte(s, '}')
	if end < start {
		return s[start:]
	}
	return s[start : end+1]
}

// TrailingJSON returns everything from the first '{' to the end of the
// fence-stripped response. Unlike CleanJSON it never cuts at the last '}',
// so a truncated document keeps its unfinished tail for RepairJSON.
func TrailingJSON(response string) string {
	s := stripFences(response)
	if start := strings.IndexByte(s, '{'); start >= 0 {
		return s[start:]
	}
	return s
}

// RepairJSON closes a truncated JSON document. An unterminated string gets its
// closing quote, a dangling comma is dropped, and every bracket or brace still
// open is closed innermost first. Balanced input is returned unchanged.
func RepairJSON(s string) string {
	s = strings.TrimSpace(s)

	var open []byte
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			open = append(open, '}')
		case '[':
			open = append(open, ']')
		case '}', ']':
			if n := len(open); n > 0 && open[n-1] == c {
				open = open[:n-1]
			}
		}
	}
	if !inString && len(open) == 0 {
		return s
	}

	out := s
	if inString {
		if escaped {
			out = out[:len(out)-1]
		}
		out += `"`
	} else {
		out = strings.TrimRight(out, ", \t\r\n")
	}

	var b strings.Builder
	b.WriteString(out)
	for i := len(open) - 1; i >= 0; i-- {
		b.WriteByte(open[i])
	}
	return b.String()
}

// ParseJSON cleans and unmarshals a JSON string into a type T.
// It handles common LLM quirks like surrounding markdown or extra text.
func ParseJSON[T any](response string) (T, error) {
	var zero T
	jsonStr := CleanJSON(response)
	if !strings.HasPrefix(jsonStr, "{") {
		return zero, fmt.Errorf("no JSON object found in response (missing '{')")
	}

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return result, nil
}
