package llmanalyze

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"dealflow/internal/obslog"
	"dealflow/pkg/dealerr"
	"dealflow/pkg/model"
	"dealflow/pkg/prompt"
	"dealflow/pkg/resilience"
)

var log = obslog.New("llmanalyze")

// Config configures the analyzer's call behavior.
type Config struct {
	Retry        resilience.RetryPolicy
	CallTimeout  time.Duration // per-attempt timeout, default 30s
	Generation   GenerationConfig
	Safety       SafetyConfig
}

// DefaultConfig is the analyzer's out-of-the-box configuration.
func DefaultConfig() Config {
	return Config{
		Retry:       resilience.DefaultRetryPolicy(),
		CallTimeout: 30 * time.Second,
		Generation:  GenerationConfig{MaxOutputTokens: 2000, Temperature: 0.1, TopP: 0.95, TopK: 40},
	}
}

// Analyzer orchestrates the prompt workflow against a Capability.
type Analyzer struct {
	capability Capability
	breaker    *resilience.CircuitBreaker
	manager    *prompt.Manager
	config     Config
}

// NewAnalyzer builds an Analyzer. breaker may be nil to run without
// circuit-breaking (e.g. in tests).
func NewAnalyzer(capability Capability, breaker *resilience.CircuitBreaker, manager *prompt.Manager, config Config) *Analyzer {
	return &Analyzer{capability: capability, breaker: breaker, manager: manager, config: config}
}

type slotResult struct {
	index   int
	raw     string
	err     error
}

// AnalyzeContent runs the full four-prompt workflow over the concatenated
// document text and assembles an AnalysisResult.
func (a *Analyzer) AnalyzeContent(ctx context.Context, docs []model.ProcessedDocument, overrides prompt.Overrides) (model.AnalysisResult, error) {
	if len(docs) == 0 {
		return model.AnalysisResult{}, dealerr.New(dealerr.CategoryValidation, "NO_DOCUMENTS", "at least one document is required")
	}

	combined := concatenateDocuments(docs)
	prompts, err := a.manager.WorkflowPrompts(overrides, map[string]string{"documents": combined})
	if err != nil {
		return model.AnalysisResult{}, dealerr.Wrap(dealerr.CategoryInternal, "PROMPT_BUILD_FAILED", "failed to build workflow prompts", err)
	}

	results := make([]slotResult, len(prompts))

	group, gctx := errgroup.WithContext(ctx)
	for i, p := range prompts {
		i, p := i, p
		group.Go(func() error {
			raw, err := a.dispatchOne(gctx, p)
			results[i] = slotResult{index: i, raw: raw, err: err}
			return nil // errors are per-slot, never fatal to the group
		})
	}
	if err := group.Wait(); err != nil {
		return model.AnalysisResult{}, dealerr.Cancelled()
	}

	return a.assemble(docs, results)
}

// dispatchOne runs one workflow prompt: per-attempt timeout, wrapped in
// retry, optionally behind the circuit breaker.
func (a *Analyzer) dispatchOne(ctx context.Context, p prompt.Generated) (string, error) {
	var lastText string

	call := func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, a.config.CallTimeout)
		defer cancel()

		gen := a.config.Generation
		gen.Temperature = p.Temperature
		gen.MaxOutputTokens = p.MaxTokens

		result, err := a.capability.Generate(callCtx, p.SystemText, p.UserText, gen, a.config.Safety)
		if err != nil {
			if callCtx.Err() != nil {
				return dealerr.New(dealerr.CategoryAIService, "LLM_TIMEOUT", "llm call timed out").WithSeverity(dealerr.SeverityMedium)
			}
			return err
		}
		lastText = result.Text
		return nil
	}

	retryable := func(ctx context.Context) error {
		return resilience.WithRetry(ctx, a.config.Retry, call)
	}

	var err error
	if a.breaker != nil {
		err = a.breaker.Call(ctx, retryable)
	} else {
		err = retryable(ctx)
	}
	return lastText, err
}

func (a *Analyzer) assemble(docs []model.ProcessedDocument, results []slotResult) (model.AnalysisResult, error) {
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}

	var companyProfile model.CompanyProfile
	var metrics model.InvestmentMetrics
	var market model.MarketClaims
	var team model.TeamAssessment

	var warnings []string
	var confidences []float64

	for _, r := range results {
		if r.err != nil {
			warnings = append(warnings, fmt.Sprintf("%s failed: %v", prompt.WorkflowNames[r.index], r.err))
			if r.index == 0 || r.index == 1 {
				return model.AnalysisResult{}, dealerr.New(dealerr.CategoryAIService, "extraction_failed",
					fmt.Sprintf("required section %q failed to extract", prompt.WorkflowNames[r.index])).
					WithSeverity(dealerr.SeverityHigh)
			}
			continue
		}

		switch r.index {
		case 0:
			if err := smartDecode(r.raw, &companyProfile); err != nil {
				return model.AnalysisResult{}, dealerr.Wrap(dealerr.CategoryAIService, "extraction_failed", "company profile decode failed", err).WithSeverity(dealerr.SeverityHigh)
			}
			confidences = append(confidences, 0.8)
		case 1:
			if err := smartDecode(r.raw, &metrics); err != nil {
				return model.AnalysisResult{}, dealerr.Wrap(dealerr.CategoryAIService, "extraction_failed", "investment metrics decode failed", err).WithSeverity(dealerr.SeverityHigh)
			}
			confidences = append(confidences, 0.8)
		case 2:
			if err := smartDecode(r.raw, &market); err != nil {
				warnings = append(warnings, "market claims decode failed: "+err.Error())
			} else {
				confidences = append(confidences, 0.8)
			}
		case 3:
			if err := smartDecode(r.raw, &team); err != nil {
				warnings = append(warnings, "team assessment decode failed: "+err.Error())
			} else {
				confidences = append(confidences, 0.8)
			}
		}
	}

	confidence := 0.8
	if len(confidences) > 0 {
		sum := 0.0
		for _, c := range confidences {
			sum += c
		}
		confidence = sum / float64(len(confidences))
	}

	for _, w := range warnings {
		log.Warnf("%s", w)
	}

	return model.AnalysisResult{
		AnalysisType:      "workflow",
		CompanyProfile:    companyProfile,
		Metrics:           metrics,
		MarketClaims:      market,
		TeamAssessment:    team,
		Confidence:        confidence,
		SourceDocumentIDs: ids,
	}, nil
}

func concatenateDocuments(docs []model.ProcessedDocument) string {
	var b strings.Builder
	for _, d := range docs {
		b.WriteString("=== ")
		b.WriteString(d.Metadata.Filename)
		b.WriteString(" ===\n")
		b.WriteString(d.ExtractedText)
		b.WriteString("\n\n")
	}
	return b.String()
}
