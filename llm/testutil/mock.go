// Package testutil provides test utilities for the llm package.
// It includes mock implementations for testing LLM client interactions.
package testutil

import (
	"context"
	"sync"

	"github.com/c360studio/debateclub/llm"
)

// MockCompleter is a thread-safe mock generator for testing.
// It implements llm.Completer and returns configured responses in sequence.
//
// Usage:
//
//	// Single response mock
//	mock := &MockCompleter{
//	    Responses: []*llm.Response{
//	        {Content: "a compelling argument", Model: "test-model"},
//	    },
//	}
//
//	// Error response
//	mock := &MockCompleter{
//	    Err: errors.New("connection failed"),
//	}
//
//	// Request-dependent responses
//	mock := &MockCompleter{
//	    Script: func(req llm.Request) (*llm.Response, error) { ... },
//	}
type MockCompleter struct {
	mu            sync.Mutex
	Responses     []*llm.Response // Responses to return in sequence
	Err           error           // Error to return (takes precedence over Responses)
	Script        func(req llm.Request) (*llm.Response, error)
	requests      []llm.Request
	callCount     int
	responseIndex int
}

// Complete implements llm.Completer.
// Returns Err if set, then the Script result if set, then the next entry
// from Responses. Captures every request for verification in tests.
func (m *MockCompleter) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	m.callCount++

	if m.Err != nil {
		return nil, m.Err
	}

	if m.Script != nil {
		return m.Script(req)
	}

	if m.responseIndex < len(m.Responses) {
		resp := m.Responses[m.responseIndex]
		m.responseIndex++
		return resp, nil
	}

	// Default response if no responses configured
	return &llm.Response{Content: "", Model: "test-model"}, nil
}

// Requests returns a copy of all requests passed to Complete().
func (m *MockCompleter) Requests() []llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]llm.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// CallCount returns the number of times Complete() was called.
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset resets the mock's state (call count, captured requests, response index).
// Useful for reusing the same mock instance across multiple test cases.
func (m *MockCompleter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.responseIndex = 0
	m.requests = nil
}
