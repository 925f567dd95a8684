package llmcap

import (
	"context"
	"errors"
	"testing"

	"dealflow/pkg/llmanalyze"
)

func TestMockCapabilityMatchesBySubstring(t *testing.T) {
	m := NewMockCapability(map[string]string{"company profile": `{"name":"Acme"}`})
	result, err := m.Generate(context.Background(), "extract the company profile", "", llmanalyze.GenerationConfig{}, llmanalyze.SafetyConfig{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if result.Text != `{"name":"Acme"}` {
		t.Errorf("Text = %q", result.Text)
	}
}

func TestMockCapabilityFallsBackToEmptyObject(t *testing.T) {
	m := NewMockCapability(map[string]string{"company profile": `{"name":"Acme"}`})
	result, err := m.Generate(context.Background(), "something unrelated", "", llmanalyze.GenerationConfig{}, llmanalyze.SafetyConfig{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if result.Text != "{}" {
		t.Errorf("Text = %q, want {}", result.Text)
	}
}

func TestMockCapabilityConsumesScriptedFailuresInOrder(t *testing.T) {
	m := NewMockCapability(nil)
	m.Failures = []error{errors.New("first call fails")}
	if _, err := m.Generate(context.Background(), "x", "y", llmanalyze.GenerationConfig{}, llmanalyze.SafetyConfig{}); err == nil {
		t.Error("expected the first call to fail")
	}
	if _, err := m.Generate(context.Background(), "x", "y", llmanalyze.GenerationConfig{}, llmanalyze.SafetyConfig{}); err != nil {
		t.Errorf("expected the second call to succeed, got: %v", err)
	}
}

func TestMockCapabilityTracksCallCount(t *testing.T) {
	m := NewMockCapability(nil)
	m.Generate(context.Background(), "a", "b", llmanalyze.GenerationConfig{}, llmanalyze.SafetyConfig{})
	m.Generate(context.Background(), "a", "b", llmanalyze.GenerationConfig{}, llmanalyze.SafetyConfig{})
	if m.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", m.Calls())
	}
}
