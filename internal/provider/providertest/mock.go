// Package providertest provides test helpers for the provider package.
package providertest

import (
	"context"
	"sync"

	"github.com/flemzord/fizz/internal/provider"
)

// MockProvider is a configurable test double for provider.Provider.
// Set ChatFunc to control behavior; an unset func panics on call.
// All methods are safe for concurrent use.
type MockProvider struct {
	ChatFunc      func(ctx context.Context, messages []provider.Message) (string, error)
	ModelNameFunc func() string

	mu        sync.Mutex
	chatCalls int
	requests  [][]provider.Message
}

// Chat delegates to ChatFunc, recording the call and a copy of the messages.
func (m *MockProvider) Chat(ctx context.Context, messages []provider.Message) (string, error) {
	m.mu.Lock()
	m.chatCalls++
	snapshot := make([]provider.Message, len(messages))
	copy(snapshot, messages)
	m.requests = append(m.requests, snapshot)
	m.mu.Unlock()
	return m.ChatFunc(ctx, messages)
}

// ModelName delegates to ModelNameFunc, or returns "mock-model" when unset.
func (m *MockProvider) ModelName() string {
	if m.ModelNameFunc == nil {
		return "mock-model"
	}
	return m.ModelNameFunc()
}

// ChatCalls returns the number of Chat invocations so far.
func (m *MockProvider) ChatCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chatCalls
}

// Requests returns the message sequences passed to each Chat call.
func (m *MockProvider) Requests() [][]provider.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests
}

// Scripted returns a MockProvider whose Chat calls return the given replies
// in order. Calls beyond the script fail the test.
func Scripted(replies ...string) *MockProvider {
	idx := 0
	m := &MockProvider{}
	m.ChatFunc = func(_ context.Context, _ []provider.Message) (string, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		if idx >= len(replies) {
			panic("providertest: scripted provider exhausted")
		}
		reply := replies[idx]
		idx++
		return reply, nil
	}
	return m
}

// Interface guard.
var _ provider.Provider = (*MockProvider)(nil)
