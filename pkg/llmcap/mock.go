package llmcap

import (
	"context"
	"strings"
	"sync"

	"dealflow/pkg/llmanalyze"
)

// MockCapability is a deterministic, in-memory llmanalyze.Capability used
// by tests and the CLI demo entrypoint. It returns a fixed response per
// substring match against the system or user text, or an optional
// scripted failure sequence.
type MockCapability struct {
	mu        sync.Mutex
	Responses map[string]string // substring of systemText or userText -> JSON response
	Failures  []error           // consumed in order before falling through to Responses
	calls     int
}

var _ llmanalyze.Capability = (*MockCapability)(nil)

// NewMockCapability builds a mock with the given canned responses.
func NewMockCapability(responses map[string]string) *MockCapability {
	return &MockCapability{Responses: responses}
}

func (m *MockCapability) Generate(ctx context.Context, systemText, userText string, gen llmanalyze.GenerationConfig, safety llmanalyze.SafetyConfig) (llmanalyze.GenerateResult, error) {
	m.mu.Lock()
	m.calls++
	callIdx := m.calls - 1
	m.mu.Unlock()

	if callIdx < len(m.Failures) {
		if err := m.Failures[callIdx]; err != nil {
			return llmanalyze.GenerateResult{}, err
		}
	}

	for substr, resp := range m.Responses {
		if substr != "" && (strings.Contains(systemText, substr) || strings.Contains(userText, substr)) {
			return llmanalyze.GenerateResult{Text: resp, FinishReason: llmanalyze.FinishStop}, nil
		}
	}
	return llmanalyze.GenerateResult{Text: "{}", FinishReason: llmanalyze.FinishStop}, nil
}

// Calls returns the number of Generate invocations so far.
func (m *MockCapability) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
