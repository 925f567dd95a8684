package llmcap

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"dealflow/pkg/llmanalyze"
)

// LegacyGeminiCapability implements llmanalyze.Capability using the older
// github.com/google/generative-ai-go SDK, kept alongside GeminiCapability
// as a legacy LLM client path for callers still pinned to that SDK.
type LegacyGeminiCapability struct {
	Model string
}

var _ llmanalyze.Capability = (*LegacyGeminiCapability)(nil)

// NewLegacyGeminiCapability builds a capability targeting model, or
// "gemini-1.5-flash" if empty.
func NewLegacyGeminiCapability(model string) *LegacyGeminiCapability {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &LegacyGeminiCapability{Model: model}
}

func (l *LegacyGeminiCapability) Generate(ctx context.Context, systemText, userText string, gen llmanalyze.GenerationConfig, safety llmanalyze.SafetyConfig) (llmanalyze.GenerateResult, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return llmanalyze.GenerateResult{}, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return llmanalyze.GenerateResult{}, fmt.Errorf("failed to create legacy Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(l.Model)
	model.SetTemperature(float32(gen.Temperature))
	model.SetTopP(float32(gen.TopP))
	model.SetTopK(int32(gen.TopK))

	fullPrompt := fmt.Sprintf("%s\n\n%s", systemText, userText)
	resp, err := model.GenerateContent(ctx, genai.Text(fullPrompt))
	if err != nil {
		return llmanalyze.GenerateResult{}, fmt.Errorf("legacy gemini generation failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return llmanalyze.GenerateResult{Text: "{}"}, nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	return llmanalyze.GenerateResult{Text: sb.String(), FinishReason: llmanalyze.FinishStop}, nil
}
