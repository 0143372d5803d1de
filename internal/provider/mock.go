package provider

import (
	"context"
	"fmt"
	"sync"
)

// MockProvider is a simple offline provider for testing and demos. It
// answers with a canned response per prompt, or echoes the prompt.
type MockProvider struct {
	mu        sync.Mutex
	responses map[string]string
	err       error
	calls     [][]Message
}

// NewMockProvider creates a new mock provider
func NewMockProvider() *MockProvider {
	return &MockProvider{
		responses: make(map[string]string),
	}
}

// SetResponse sets a mock response for a given prompt
func (m *MockProvider) SetResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// SetError makes every following Generate call fail with err. Pass nil to reset.
func (m *MockProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns a copy of the message lists Generate has received.
func (m *MockProvider) Calls() [][]Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]Message, len(m.calls))
	for i, c := range m.calls {
		out[i] = append([]Message(nil), c...)
	}
	return out
}

// Generate answers the last human message in messages
func (m *MockProvider) Generate(ctx context.Context, messages []Message) (Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, append([]Message(nil), messages...))

	if err := ctx.Err(); err != nil {
		return Message{}, err
	}
	if m.err != nil {
		return Message{}, m.err
	}
	if len(messages) == 0 {
		return Message{}, fmt.Errorf("no messages provided")
	}

	// Get the last human message
	var prompt string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleHuman {
			prompt = messages[i].Content
			break
		}
	}

	response, ok := m.responses[prompt]
	if !ok {
		response = "Mock response for: " + prompt
	}

	return AIMessage(response), nil
}
