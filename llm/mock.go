package llm

import (
	"context"
	"fmt"
	"sync"
)

// MockClient replays scripted responses without calling a provider. With no
// script it echoes a minimal empty analysis, which is enough for local runs.
type MockClient struct {
	mu        sync.Mutex
	Responses []string
	Errors    []error
	Prompts   []Prompt
}

// NewMockClient creates a mock that returns responses in order
func NewMockClient(responses ...string) *MockClient {
	return &MockClient{Responses: responses}
}

// Complete returns the next scripted response or error. The last entry repeats.
func (m *MockClient) Complete(_ context.Context, prompt Prompt) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := len(m.Prompts)
	m.Prompts = append(m.Prompts, prompt)

	if len(m.Errors) > 0 {
		if err := m.Errors[min(call, len(m.Errors)-1)]; err != nil {
			return "", err
		}
	}
	if len(m.Responses) == 0 {
		return fmt.Sprintf(`{"document_id": "mock-%d", "analysis_summary": "", "comments": []}`, call+1), nil
	}
	return m.Responses[min(call, len(m.Responses)-1)], nil
}

// Calls is the number of prompts received so far
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}
