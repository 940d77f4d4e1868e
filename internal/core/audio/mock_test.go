package audio

import (
	"context"
	"os"
	"time"
)

type trimCall struct {
	Src, Dst        string
	Start, Duration time.Duration
}

type MockTrimmer struct {
	Calls []trimCall
	Err   error
}

func (m *MockTrimmer) Trim(ctx context.Context, src, dst string, start, duration time.Duration) error {
	m.Calls = append(m.Calls, trimCall{Src: src, Dst: dst, Start: start, Duration: duration})
	if err := os.WriteFile(dst, []byte("partial"), 0o600); err != nil {
		return err
	}
	return m.Err
}
