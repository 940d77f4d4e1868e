package model

const (
	// BytesPerSecond of 16 kHz mono 16-bit PCM.
	BytesPerSecond = 32000
	// OverlapBytes is added on both sides of every interior chunk boundary.
	OverlapBytes = BytesPerSecond
)

// AudioChunk is a byte range of the normalized audio file. Start and End are
// already widened by the overlap.
type AudioChunk struct {
	Index int
	Start int64
	End   int64
	Path  string
}

func (c AudioChunk) Len() int64 {
	return c.End - c.Start
}

// TranscriptSegment is the text returned for one chunk. LastNumber is the
// trailing number carried forward to the next chunk, the running maximum
// after this chunk was stitched.
type TranscriptSegment struct {
	Index      int
	Text       string
	LastNumber int
}

type CaptionSegment struct {
	Start float64 `json:"start"`
	Dur   float64 `json:"dur"`
	Text  string  `json:"text"`
}

type YouTubeTranscript struct {
	Text     string           `json:"text"`
	Segments []CaptionSegment `json:"segments"`
	Method   string           `json:"method"`
}
