package llm

import (
	"context"
	"fmt"
	"sync"
)

// MockClient is a deterministic Client for tests and local demos.
type MockClient struct {
	// GenerateFunc overrides the canned behavior when set.
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	mu      sync.Mutex
	prompts []string
}

// Generate records the prompt and returns either the override's answer or a
// canned echo completion.
func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return fmt.Sprintf("[mock completion] %s", prompt), nil
}

// Prompts returns the prompts seen so far.
func (m *MockClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}
