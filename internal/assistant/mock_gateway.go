package assistant

import (
	"context"
	"sync"
)

// MockGateway is an in-memory Gateway for testing. Responses are consumed
// in order; the last one repeats once the queue is drained.
type MockGateway struct {
	mu        sync.Mutex
	Responses []string
	Err       error
	Requests  []CompletionRequest
	Configs   []ProviderConfig
	calls     int
}

// NewMockGateway creates a mock that always returns the given response
func NewMockGateway(response string) *MockGateway {
	return &MockGateway{Responses: []string{response}}
}

// Complete implements the Gateway interface
func (m *MockGateway) Complete(ctx context.Context, cfg ProviderConfig, req CompletionRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, req)
	m.Configs = append(m.Configs, cfg)
	m.calls++

	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", nil
	}

	idx := m.calls - 1
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return m.Responses[idx], nil
}

// TestConnection implements the Gateway interface
func (m *MockGateway) TestConnection(ctx context.Context, cfg ProviderConfig) error {
	_, err := m.Complete(ctx, cfg, CompletionRequest{User: "ping", MaxTokens: 1})
	return err
}

// CallCount returns how many completions were requested
func (m *MockGateway) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
