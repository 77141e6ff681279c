package llm

import (
	"context"
	"sync"
)

// MockGenerator is a canned generator for tests. Safe for concurrent use;
// the evidence collector calls it from parallel workers.
type MockGenerator struct {
	TextResponse   string
	VisionResponse string
	Err            error

	mu      sync.Mutex
	prompts []string
}

func (m *MockGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.record(prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.TextResponse, nil
}

func (m *MockGenerator) GenerateVision(ctx context.Context, prompt string, imageJPEG []byte) (string, error) {
	m.record(prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.VisionResponse, nil
}

// Prompts returns every prompt received so far, in call order
func (m *MockGenerator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

func (m *MockGenerator) record(prompt string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
}
