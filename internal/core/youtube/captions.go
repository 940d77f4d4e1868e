package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/agenthands/notify/internal/core/model"
)

const (
	userAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
	acceptLanguage = "en-US,en;q=0.9"
	watchURL       = "https://www.youtube.com/watch?v="
	maxBodyBytes   = 16 << 20
)

func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

func get(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Language", acceptLanguage)
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}

// selectTrack picks the base URL of the preferred caption track: manual
// English, then auto-generated English, then whatever comes first.
func selectTrack(tracks gjson.Result) (string, error) {
	list := tracks.Array()
	if len(list) == 0 {
		return "", fmt.Errorf("no caption tracks found")
	}
	for _, lang := range []string{"en", "a.en"} {
		for _, t := range list {
			if t.Get("languageCode").String() == lang || strings.Contains(t.Get("vssId").String(), lang) {
				if u := t.Get("baseUrl").String(); u != "" {
					return u, nil
				}
			}
		}
	}
	for _, t := range list {
		if u := t.Get("baseUrl").String(); u != "" {
			return u, nil
		}
	}
	return "", fmt.Errorf("no caption URL found")
}

type json3Doc struct {
	Events []struct {
		TStartMs    float64 `json:"tStartMs"`
		DDurationMs float64 `json:"dDurationMs"`
		Segs        []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// parseJSON3 converts json3 caption events into segments. Events without text
// are dropped.
func parseJSON3(data []byte, method string) (*model.YouTubeTranscript, error) {
	var doc json3Doc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse json3 captions: %w", err)
	}

	t := &model.YouTubeTranscript{Method: method}
	texts := make([]string, 0, len(doc.Events))
	for _, ev := range doc.Events {
		if len(ev.Segs) == 0 {
			continue
		}
		var sb strings.Builder
		for _, s := range ev.Segs {
			sb.WriteString(s.UTF8)
		}
		text := strings.TrimSpace(strings.ReplaceAll(sb.String(), "\n", " "))
		if text == "" {
			continue
		}
		t.Segments = append(t.Segments, model.CaptionSegment{
			Start: ev.TStartMs / 1000,
			Dur:   ev.DDurationMs / 1000,
			Text:  text,
		})
		texts = append(texts, text)
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("no transcript text found in captions")
	}
	t.Text = strings.Join(texts, " ")
	return t, nil
}
