// Package prompt implements the prompt manager (§4.4): named templates
// with variable interpolation and per-template output schemas, built
// around a PromptTemplate/Registry shape with {key}-substitution.
package prompt

import (
	"fmt"
	"strings"
)

// Template is one named prompt definition.
type Template struct {
	Name             string
	Description      string
	SystemText       string
	UserTemplate     string
	OutputSchema     string // JSON-Schema-like string; copied into Generated, not checked against responses
	RequiredVars     []string
	Temperature      float64
	MaxTokens        int
}

// Overrides carries per-call context lines appended to a template's
// system text when present.
type Overrides struct {
	Company                 string
	Sector                  string
	Stage                   string
	AdditionalInstructions  string
}

// Generated is what Generate returns for one call.
type Generated struct {
	SystemText   string
	UserText     string
	OutputSchema string
	Temperature  float64
	MaxTokens    int
}

func defaultTemperature(t float64) float64 {
	if t == 0 {
		return 0.1
	}
	return t
}

func defaultMaxTokens(n int) int {
	if n == 0 {
		return 2000
	}
	return n
}

// Manager holds the named template table.
type Manager struct {
	templates map[string]Template
}

// NewManager builds a Manager seeded with the four built-in templates.
func NewManager() *Manager {
	m := &Manager{templates: make(map[string]Template)}
	for _, t := range builtinTemplates() {
		m.templates[t.Name] = t
	}
	return m
}

// Register adds or replaces a template.
func (m *Manager) Register(t Template) {
	m.templates[t.Name] = t
}

// Generate interpolates vars into the named template's user text,
// appends context lines from overrides to the system text, and returns
// the ready-to-send payload.
func (m *Manager) Generate(name string, overrides Overrides, vars map[string]string) (Generated, error) {
	t, ok := m.templates[name]
	if !ok {
		return Generated{}, fmt.Errorf("unknown prompt template: %s", name)
	}

	for _, req := range t.RequiredVars {
		if _, ok := vars[req]; !ok {
			return Generated{}, fmt.Errorf("missing required variable %q for template %q", req, name)
		}
	}

	userText := t.UserTemplate
	for k, v := range vars {
		userText = strings.ReplaceAll(userText, "{"+k+"}", v)
	}

	systemText := t.SystemText
	var extra []string
	if overrides.Company != "" {
		extra = append(extra, "Company being analyzed: "+overrides.Company)
	}
	if overrides.Sector != "" {
		extra = append(extra, "Sector: "+overrides.Sector)
	}
	if overrides.Stage != "" {
		extra = append(extra, "Funding stage: "+overrides.Stage)
	}
	if overrides.AdditionalInstructions != "" {
		extra = append(extra, "Additional instructions: "+overrides.AdditionalInstructions)
	}
	if len(extra) > 0 {
		systemText = systemText + "\n" + strings.Join(extra, "\n")
	}

	return Generated{
		SystemText:   systemText,
		UserText:     userText,
		OutputSchema: t.OutputSchema,
		Temperature:  defaultTemperature(t.Temperature),
		MaxTokens:    defaultMaxTokens(t.MaxTokens),
	}, nil
}

// WorkflowNames is the fixed, order-significant list of prompts the LLM
// analyzer dispatches; result assembly is keyed off this positional
// index (§4.5 step 4).
var WorkflowNames = []string{"company_profile", "investment_metrics", "market_claims", "team_assessment"}

// WorkflowPrompts returns the four standard prompts generated in the
// fixed workflow order.
func (m *Manager) WorkflowPrompts(overrides Overrides, vars map[string]string) ([]Generated, error) {
	out := make([]Generated, 0, len(WorkflowNames))
	for _, name := range WorkflowNames {
		g, err := m.Generate(name, overrides, vars)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}
