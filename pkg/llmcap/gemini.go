// Package llmcap provides concrete implementations of the llmanalyze.Capability
// contract: a current-SDK Gemini backend, a legacy-SDK backend kept for
// compatibility, and a mock backend for tests.
package llmcap

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"

	"dealflow/pkg/llmanalyze"
)

// GeminiCapability implements llmanalyze.Capability using the current
// google.golang.org/genai SDK.
type GeminiCapability struct {
	Model string
}

var _ llmanalyze.Capability = (*GeminiCapability)(nil)

// NewGeminiCapability builds a capability targeting model, or
// "gemini-2.0-flash-exp" if empty.
func NewGeminiCapability(model string) *GeminiCapability {
	if model == "" {
		model = "gemini-2.0-flash-exp"
	}
	return &GeminiCapability{Model: model}
}

func (g *GeminiCapability) Generate(ctx context.Context, systemText, userText string, gen llmanalyze.GenerationConfig, safety llmanalyze.SafetyConfig) (llmanalyze.GenerateResult, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return llmanalyze.GenerateResult{}, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return llmanalyze.GenerateResult{}, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(gen.Temperature)),
		TopP:             genai.Ptr(float32(gen.TopP)),
		TopK:             genai.Ptr(float32(gen.TopK)),
		ResponseMIMEType: "application/json",
	}
	if gen.MaxOutputTokens > 0 {
		config.MaxOutputTokens = int32(gen.MaxOutputTokens)
	}
	if systemText != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemText}},
		}
	}

	result, err := client.Models.GenerateContent(ctx, g.Model, genai.Text(userText), config)
	if err != nil {
		return llmanalyze.GenerateResult{}, fmt.Errorf("gemini generation failed: %w", err)
	}

	finish := llmanalyze.FinishStop
	if len(result.Candidates) > 0 && result.Candidates[0].FinishReason != "" {
		finish = llmanalyze.FinishReason(result.Candidates[0].FinishReason)
	}

	return llmanalyze.GenerateResult{
		Text:         result.Text(),
		FinishReason: finish,
	}, nil
}
