// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"sync"

	"coresync/coach/internal/llm"
)

// MockClient returns Responses in sequence, or Err when set.
//
//	mock := &llmtest.MockClient{Responses: []string{`{"reply": "hi"}`}}
//	mock := &llmtest.MockClient{Err: errors.New("quota exceeded")}
type MockClient struct {
	mu        sync.Mutex
	Responses []string
	Err       error
	requests  []llm.Request
}

// Generate implements llm.Client.
func (m *MockClient) Generate(_ context.Context, req llm.Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if m.Err != nil {
		return "", m.Err
	}

	idx := len(m.requests) - 1
	if idx < len(m.Responses) {
		if m.Responses[idx] == "" {
			return "", llm.ErrEmptyResponse
		}
		return m.Responses[idx], nil
	}
	return "", llm.ErrEmptyResponse
}

// Calls returns the number of Generate calls.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of every request received.
func (m *MockClient) Requests() []llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]llm.Request, len(m.requests))
	copy(out, m.requests)
	return out
}
