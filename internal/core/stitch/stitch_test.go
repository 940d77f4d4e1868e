package stitch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoin_NumberedSequences(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   string
	}{
		{
			name:   "trailing number advances, nothing stripped",
			chunks: []string{"1 2 3", "2 3 4"},
			want:   "1 2 3 2 3 4",
		},
		{
			name:   "trailing number regresses, repeats stripped",
			chunks: []string{"5 6 7", "6 7"},
			want:   "5 6 7",
		},
		{
			name:   "strip removes every number up to the high-water mark",
			chunks: []string{"step 10 done", "back to step 3 then 9"},
			want:   "step 10 done back to step then",
		},
		{
			name:   "no numbers at all",
			chunks: []string{"hello  there", "\tgeneral\nkenobi "},
			want:   "hello there general kenobi",
		},
		{
			name:   "zero never triggers stripping",
			chunks: []string{"count 5", "ends at 0"},
			want:   "count 5 ends at 0",
		},
		{
			name:   "non canonical tokens survive",
			chunks: []string{"item 8", "item 07 and 7"},
			want:   "item 8 item 07 and",
		},
		{
			name:   "empty input",
			chunks: nil,
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Join(tt.chunks...))
		})
	}
}

func TestJoin_NoRegressionIsPlainJoin(t *testing.T) {
	chunks := []string{
		"We start at 1 and look at figure 2.",
		"Next is chapter 3 of 5 then 6.",
		"Finally 12.",
	}
	assert.Equal(t, strings.Join(chunks, " "), Join(chunks...))
}

func TestStitcher_TracksHighWaterMark(t *testing.T) {
	var s Stitcher
	assert.Equal(t, 3, s.Add("1 2 3"))
	assert.Equal(t, 3, s.LastNumber())

	assert.Equal(t, 2, s.Add("a 2"))
	assert.Equal(t, 3, s.LastNumber())

	assert.Equal(t, 9, s.Add("b 9"))
	assert.Equal(t, 9, s.LastNumber())
	assert.Equal(t, "1 2 3 a b 9", s.String())
}

func TestLastNumber(t *testing.T) {
	assert.Equal(t, 0, LastNumber("no digits"))
	assert.Equal(t, 42, LastNumber("first 1 then 42."))
	assert.Equal(t, 0, LastNumber("abc123"))
}

func TestStripNumbers_HugeNumbersKept(t *testing.T) {
	in := "99999999999999999999999 and 4"
	assert.Equal(t, "99999999999999999999999 and ", StripNumbers(in, 10))
}
