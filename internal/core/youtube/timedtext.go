package youtube

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/agenthands/notify/internal/core/model"
)

var (
	captionTracksPattern = regexp.MustCompile(`"captionTracks":\s*(\[.*?\])`)
	textElementPattern   = regexp.MustCompile(`<text[^>]*>([^<]*)</text>`)
)

// TimedTextSource scrapes the caption track list from the watch page and
// downloads the timedtext XML of the preferred track.
type TimedTextSource struct {
	WatchURL string
	Client   *http.Client
}

func NewTimedTextSource(client *http.Client) *TimedTextSource {
	return &TimedTextSource{WatchURL: watchURL, Client: client}
}

func (s *TimedTextSource) Name() string { return "timedtext" }

func (s *TimedTextSource) Fetch(ctx context.Context, videoID string) (*model.YouTubeTranscript, error) {
	page, err := get(ctx, s.Client, s.WatchURL+videoID)
	if err != nil {
		return nil, fmt.Errorf("fetch watch page: %w", err)
	}

	m := captionTracksPattern.FindSubmatch(page)
	if m == nil {
		return nil, fmt.Errorf("no caption tracks found for this video")
	}
	if !gjson.ValidBytes(m[1]) {
		return nil, fmt.Errorf("caption track list is not valid JSON")
	}
	trackURL, err := selectTrack(gjson.ParseBytes(m[1]))
	if err != nil {
		return nil, err
	}

	data, err := get(ctx, s.Client, trackURL)
	if err != nil {
		return nil, fmt.Errorf("fetch captions: %w", err)
	}
	return parseTimedText(data, s.Name())
}

type timedTextDoc struct {
	Texts []struct {
		Start string `xml:"start,attr"`
		Dur   string `xml:"dur,attr"`
		Body  string `xml:",chardata"`
	} `xml:"text"`
}

// parseTimedText reads <transcript><text start dur>...</text></transcript>.
// Malformed XML falls back to a regex scan without timings.
func parseTimedText(data []byte, method string) (*model.YouTubeTranscript, error) {
	t := &model.YouTubeTranscript{Method: method}
	var texts []string

	var doc timedTextDoc
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true
	if err := dec.Decode(&doc); err == nil {
		for _, el := range doc.Texts {
			text := cleanCaption(el.Body)
			if text == "" {
				continue
			}
			start, _ := strconv.ParseFloat(el.Start, 64)
			dur, _ := strconv.ParseFloat(el.Dur, 64)
			t.Segments = append(t.Segments, model.CaptionSegment{Start: start, Dur: dur, Text: text})
			texts = append(texts, text)
		}
	} else {
		for _, m := range textElementPattern.FindAllSubmatch(data, -1) {
			// Raw markup is entity-encoded once more than the decoded XML.
			if text := cleanCaption(html.UnescapeString(string(m[1]))); text != "" {
				texts = append(texts, text)
			}
		}
	}

	if len(texts) == 0 {
		return nil, fmt.Errorf("no transcript text found in captions")
	}
	t.Text = strings.Join(texts, " ")
	return t, nil
}

// cleanCaption undoes the double escaping timedtext applies ("&amp;#39;")
// and flattens line breaks.
func cleanCaption(s string) string {
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
