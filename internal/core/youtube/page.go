package youtube

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/agenthands/notify/internal/core/model"
)

var playerResponseMarker = []byte("ytInitialPlayerResponse")

// PageScrapeSource reads the player response embedded in the watch page and
// downloads the preferred caption track as json3.
type PageScrapeSource struct {
	WatchURL string
	Client   *http.Client
}

func NewPageScrapeSource(client *http.Client) *PageScrapeSource {
	return &PageScrapeSource{WatchURL: watchURL, Client: client}
}

func (s *PageScrapeSource) Name() string { return "page" }

func (s *PageScrapeSource) Fetch(ctx context.Context, videoID string) (*model.YouTubeTranscript, error) {
	page, err := get(ctx, s.Client, s.WatchURL+videoID)
	if err != nil {
		return nil, fmt.Errorf("fetch watch page: %w", err)
	}

	player, err := extractPlayerResponse(page)
	if err != nil {
		return nil, err
	}
	if status := gjson.GetBytes(player, "playabilityStatus.status").String(); status != "" && status != "OK" {
		return nil, fmt.Errorf("video not playable: %s", status)
	}

	trackURL, err := selectTrack(gjson.GetBytes(player, "captions.playerCaptionsTracklistRenderer.captionTracks"))
	if err != nil {
		return nil, err
	}
	trackURL, err = withFormat(trackURL, "json3")
	if err != nil {
		return nil, err
	}

	data, err := get(ctx, s.Client, trackURL)
	if err != nil {
		return nil, fmt.Errorf("fetch captions: %w", err)
	}
	return parseJSON3(data, s.Name())
}

// extractPlayerResponse returns the JSON object assigned to
// ytInitialPlayerResponse, matching braces outside of string literals.
func extractPlayerResponse(page []byte) ([]byte, error) {
	i := bytes.Index(page, playerResponseMarker)
	if i < 0 {
		return nil, fmt.Errorf("player response not found in page")
	}
	start := bytes.IndexByte(page[i:], '{')
	if start < 0 {
		return nil, fmt.Errorf("player response not found in page")
	}
	start += i

	depth := 0
	inString, escaped := false, false
	for j := start; j < len(page); j++ {
		c := page[j]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				obj := page[start : j+1]
				if !gjson.ValidBytes(obj) {
					return nil, fmt.Errorf("player response is not valid JSON")
				}
				return obj, nil
			}
		}
	}
	return nil, fmt.Errorf("player response is truncated")
}

func withFormat(raw, format string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse caption url: %w", err)
	}
	q := u.Query()
	q.Set("fmt", format)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
