package llm

import (
	"context"
	"sync"
)

// MockClient is a scripted Client for tests and demos. Responses are
// returned in order and cycle when exhausted; every call is recorded.
type MockClient struct {
	mu        sync.Mutex
	responses []string
	next      int
	generate  GenerateFunc

	// Calls holds the prompt of every Generate invocation, in order.
	Calls []string
}

// NewMockClient creates a mock returning the given fixed response.
func NewMockClient(response string) *MockClient {
	return &MockClient{responses: []string{response}}
}

// WithResponses replaces the response script. Returns the mock for chaining.
func (m *MockClient) WithResponses(responses ...string) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = responses
	m.next = 0
	return m
}

// WithGenerateFunc installs a custom response function, overriding the
// scripted responses.
func (m *MockClient) WithGenerateFunc(fn GenerateFunc) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generate = fn
	return m
}

// Generate implements Client.
func (m *MockClient) Generate(ctx context.Context, prompt string, temperature float64) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, prompt)

	if m.generate != nil {
		return m.generate(ctx, prompt, temperature)
	}
	if len(m.responses) == 0 {
		return ""
	}
	resp := m.responses[m.next%len(m.responses)]
	m.next++
	return resp
}

// CallCount returns the number of Generate calls so far.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent prompt, or "" if none.
func (m *MockClient) LastCall() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return ""
	}
	return m.Calls[len(m.Calls)-1]
}

// Reset clears recorded calls and restarts the response script.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = nil
	m.next = 0
}
