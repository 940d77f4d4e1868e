package llm

import (
	"context"
	"sync"
)

// MockClient is a scripted StreamingClient and Transcriber for tests.
type MockClient struct {
	mu sync.Mutex

	Response      string
	ResponseQueue []string
	Deltas        []string
	Err           error

	Transcripts    []string
	TranscribeErrs map[int]error

	Requests        []ChatRequest
	TranscribeCalls []string
}

func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	return m.Chat(ctx, ChatRequest{User: prompt})
}

func (m *MockClient) Chat(ctx context.Context, req ChatRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp, nil
	}
	return m.Response, nil
}

func (m *MockClient) Stream(ctx context.Context, req ChatRequest, onDelta func(string)) (string, error) {
	if len(m.Deltas) == 0 {
		return m.Chat(ctx, req)
	}
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	deltas := m.Deltas
	err := m.Err
	m.mu.Unlock()
	if err != nil {
		return "", err
	}

	var full string
	for _, d := range deltas {
		full += d
		if onDelta != nil {
			onDelta(d)
		}
	}
	return full, nil
}

func (m *MockClient) Transcribe(ctx context.Context, path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := len(m.TranscribeCalls)
	m.TranscribeCalls = append(m.TranscribeCalls, path)
	if err, ok := m.TranscribeErrs[i]; ok {
		return "", err
	}
	if i < len(m.Transcripts) {
		return m.Transcripts[i], nil
	}
	return "", nil
}
