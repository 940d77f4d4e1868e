// Package stitch joins per-chunk transcripts into one text.
//
// Chunks overlap by a second of audio, so a spoken count that straddles a
// boundary shows up twice. When a chunk's trailing number does not advance past
// the highest number seen so far, every standalone integer from 1 up to that
// high-water mark is removed from the chunk before it is appended. The rule is
// blunt: once triggered it also strips legitimate numbers anywhere in the chunk.
package stitch

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var integerToken = regexp.MustCompile(`\b\d+\b`)

// Stitcher accumulates chunk texts in order. The zero value is ready to use.
type Stitcher struct {
	lastNumber int
	buf        strings.Builder
}

// Add appends the next chunk and returns the trailing number found in it.
func (s *Stitcher) Add(text string) int {
	last := LastNumber(text)
	if last > 0 && s.lastNumber > 0 && last <= s.lastNumber {
		text = StripNumbers(text, s.lastNumber)
	}
	if last > s.lastNumber {
		s.lastNumber = last
	}
	s.buf.WriteString(text)
	s.buf.WriteByte(' ')
	return last
}

// LastNumber returns the highest integer seen so far.
func (s *Stitcher) LastNumber() int {
	return s.lastNumber
}

// String returns the stitched transcript with whitespace runs collapsed.
func (s *Stitcher) String() string {
	return strings.Join(strings.Fields(s.buf.String()), " ")
}

// Join stitches texts in order.
func Join(texts ...string) string {
	var s Stitcher
	for _, t := range texts {
		s.Add(t)
	}
	return s.String()
}

// LastNumber returns the value of the final standalone integer in text, or 0.
func LastNumber(text string) int {
	tokens := integerToken.FindAllString(text, -1)
	if len(tokens) == 0 {
		return 0
	}
	return atoi(tokens[len(tokens)-1])
}

// StripNumbers removes every standalone integer token in [1, upTo] written in
// canonical form. "07" is not the canonical form of 7 and is kept.
func StripNumbers(text string, upTo int) string {
	return integerToken.ReplaceAllStringFunc(text, func(tok string) string {
		n := atoi(tok)
		if n >= 1 && n <= upTo && strconv.Itoa(n) == tok {
			return ""
		}
		return tok
	})
}

func atoi(tok string) int {
	n, err := strconv.Atoi(tok)
	if err != nil {
		// Only overflow can fail on a run of digits.
		return math.MaxInt
	}
	return n
}
