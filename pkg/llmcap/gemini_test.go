package llmcap

import (
	"context"
	"os"
	"testing"

	"dealflow/pkg/llmanalyze"
)

func TestGeminiCapabilityFailsWithoutAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	os.Unsetenv("GEMINI_API_KEY")
	cap := NewGeminiCapability("")
	_, err := cap.Generate(context.Background(), "system", "user", llmanalyze.GenerationConfig{}, llmanalyze.SafetyConfig{})
	if err == nil {
		t.Error("expected an error when GEMINI_API_KEY is unset")
	}
}

func TestNewGeminiCapabilityDefaultsModel(t *testing.T) {
	cap := NewGeminiCapability("")
	if cap.Model != "gemini-2.0-flash-exp" {
		t.Errorf("Model = %q, want the default", cap.Model)
	}
}

func TestLegacyGeminiCapabilityFailsWithoutAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	os.Unsetenv("GEMINI_API_KEY")
	cap := NewLegacyGeminiCapability("")
	_, err := cap.Generate(context.Background(), "system", "user", llmanalyze.GenerationConfig{}, llmanalyze.SafetyConfig{})
	if err == nil {
		t.Error("expected an error when GEMINI_API_KEY is unset")
	}
}

func TestNewLegacyGeminiCapabilityDefaultsModel(t *testing.T) {
	cap := NewLegacyGeminiCapability("")
	if cap.Model != "gemini-1.5-flash" {
		t.Errorf("Model = %q, want the default", cap.Model)
	}
}
