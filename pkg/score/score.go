// Package score implements the score calculator (§4.9c): five raw
// component scores (0-100) derived from InvestmentMetrics, MarketClaims,
// TeamAssessment, CompetitiveAnalysis, and benchmark percentile ranks,
// rolled up into a weighted composite. The exact per-component formula
// was an open design question, so it is externalized here as a
// replaceable Strategy, with DefaultStrategy as the reference
// implementation whose outputs are recorded as golden values in tests.
package score

import (
	"dealflow/pkg/model"
)

// Inputs bundles everything a Strategy needs to compute raw component
// scores for one company.
type Inputs struct {
	Metrics     model.InvestmentMetrics
	Market      model.MarketClaims
	Team        model.TeamAssessment
	Competitive model.CompetitiveAnalysis
	Product     model.ProductProfile
	Benchmarks  model.Benchmarks
	HasBenchmarks bool
}

// Strategy computes the five raw (0-100) component scores from Inputs.
type Strategy interface {
	RawComponents(in Inputs) model.ComponentScores
}

// Calculator applies a Strategy, then rolls the raw scores up into a
// weighted ScoreBreakdown.
type Calculator struct {
	strategy Strategy
}

// NewCalculator builds a Calculator using strategy, or DefaultStrategy{}
// if nil.
func NewCalculator(strategy Strategy) *Calculator {
	if strategy == nil {
		strategy = DefaultStrategy{}
	}
	return &Calculator{strategy: strategy}
}

// Compute produces the full ScoreBreakdown: weighted_i = raw_i *
// weight_i/100, total = sum(weighted_i). analyzerConfidence is the
// AnalysisResult's confidence; in.HasBenchmarks controls the confidence
// blend per §4.9c (1.0 if benchmarks succeeded, else 0.7).
func (c *Calculator) Compute(in Inputs, weightings model.Weightings, analyzerConfidence float64) model.ScoreBreakdown {
	raw := c.strategy.RawComponents(in)

	weighted := model.ComponentScores{
		MarketOpportunity:   raw.MarketOpportunity * weightings.MarketOpportunity / 100,
		Team:                raw.Team * weightings.Team / 100,
		Traction:            raw.Traction * weightings.Traction / 100,
		Product:             raw.Product * weightings.Product / 100,
		CompetitivePosition: raw.CompetitivePosition * weightings.CompetitivePosition / 100,
	}

	total := weighted.MarketOpportunity + weighted.Team + weighted.Traction +
		weighted.Product + weighted.CompetitivePosition

	benchmarkConfidence := 0.7
	if in.HasBenchmarks {
		benchmarkConfidence = 1.0
	}
	confidence := (analyzerConfidence + benchmarkConfidence) / 2

	return model.ScoreBreakdown{
		RawComponents:      raw,
		WeightedComponents: weighted,
		TotalScore:         total,
		Weightings:         weightings,
		Confidence:         confidence,
		Methodology:        "default-v1",
	}
}
