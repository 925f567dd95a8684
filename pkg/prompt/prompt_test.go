package prompt

import (
	"strings"
	"testing"
)

func TestGenerateInterpolatesRequiredVars(t *testing.T) {
	m := NewManager()
	g, err := m.Generate("company_profile", Overrides{}, map[string]string{"documents": "Acme pitch deck text"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(g.UserText, "Acme pitch deck text") {
		t.Errorf("UserText = %q, want it to contain the interpolated documents var", g.UserText)
	}
}

func TestGenerateMissingRequiredVarFails(t *testing.T) {
	m := NewManager()
	if _, err := m.Generate("company_profile", Overrides{}, map[string]string{}); err == nil {
		t.Error("expected an error for a missing required variable")
	}
}

func TestGenerateUnknownTemplateFails(t *testing.T) {
	m := NewManager()
	if _, err := m.Generate("does_not_exist", Overrides{}, map[string]string{}); err == nil {
		t.Error("expected an error for an unknown template")
	}
}

func TestGenerateAppendsOverrideContextLines(t *testing.T) {
	m := NewManager()
	g, err := m.Generate("company_profile", Overrides{Company: "Acme", Sector: "SaaS"}, map[string]string{"documents": "x"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(g.SystemText, "Company being analyzed: Acme") || !strings.Contains(g.SystemText, "Sector: SaaS") {
		t.Errorf("SystemText = %q, want both override lines appended", g.SystemText)
	}
}

func TestGenerateDefaultsTemperatureAndMaxTokens(t *testing.T) {
	m := NewManager()
	g, err := m.Generate("company_profile", Overrides{}, map[string]string{"documents": "x"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if g.Temperature != 0.1 {
		t.Errorf("Temperature = %v, want default 0.1", g.Temperature)
	}
	if g.MaxTokens != 2000 {
		t.Errorf("MaxTokens = %v, want default 2000", g.MaxTokens)
	}
}

func TestWorkflowPromptsReturnsAllFourInOrder(t *testing.T) {
	m := NewManager()
	prompts, err := m.WorkflowPrompts(Overrides{}, map[string]string{"documents": "x"})
	if err != nil {
		t.Fatalf("WorkflowPrompts failed: %v", err)
	}
	if len(prompts) != len(WorkflowNames) {
		t.Fatalf("len(prompts) = %d, want %d", len(prompts), len(WorkflowNames))
	}
}

func TestRegisterOverridesBuiltinTemplate(t *testing.T) {
	m := NewManager()
	m.Register(Template{Name: "company_profile", SystemText: "custom system text", UserTemplate: "custom {documents}"})
	g, err := m.Generate("company_profile", Overrides{}, map[string]string{"documents": "x"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if g.SystemText != "custom system text" {
		t.Errorf("SystemText = %q, want the registered override", g.SystemText)
	}
}
