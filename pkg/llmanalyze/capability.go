// Package llmanalyze implements the LLM analyzer (§4.5): it dispatches
// the four workflow prompts concurrently against an LLM capability,
// decodes and maps the JSON responses by positional slot, and assembles
// an AnalysisResult deterministically in input-document order.
package llmanalyze

import "context"

// Capability is the external LLM collaborator contract (§6).
type Capability interface {
	Generate(ctx context.Context, systemText, userText string, gen GenerationConfig, safety SafetyConfig) (GenerateResult, error)
}

// FinishReason mirrors the capability contract's finish-reason enum (§6).
type FinishReason string

const (
	FinishStop        FinishReason = "STOP"
	FinishMaxTokens   FinishReason = "MAX_TOKENS"
	FinishSafety      FinishReason = "SAFETY"
	FinishRecitation  FinishReason = "RECITATION"
	FinishOther       FinishReason = "OTHER"
)

// GenerationConfig mirrors the LLM capability's generation parameters.
type GenerationConfig struct {
	MaxOutputTokens int
	Temperature     float64
	TopP            float64
	TopK            int
}

// SafetyConfig is opaque to this package; it is passed through to the
// capability unexamined.
type SafetyConfig struct {
	Settings map[string]string
}

// GenerateResult is the capability's response envelope.
type GenerateResult struct {
	Text              string
	FinishReason      FinishReason
	SafetyRatings     map[string]string
	CitationMetadata  []string
}
