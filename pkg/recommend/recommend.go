// Package recommend implements the recommendation engine (§4.10):
// mapping a score breakdown and risk register to a recommendation,
// synthesizing revenue projections, a check-size suggestion, diligence
// questions, and a diligence timeline.
package recommend

import (
	"fmt"
	"math"
	"sort"

	"dealflow/pkg/model"
)

// Config exposes the Open Question decision on whether HOLD is
// emittable (§9): when CollapseHoldIntoPass is true, any HOLD outcome is
// folded into PASS.
type Config struct {
	CollapseHoldIntoPass bool
}

// Engine synthesizes a DealMemo from an analysis result, score, risks,
// and weightings.
type Engine struct {
	config Config
}

// NewEngine builds a recommendation Engine.
func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// Input bundles everything the engine needs.
type Input struct {
	Analysis       model.AnalysisResult
	Score          model.ScoreBreakdown
	Risks          []model.RiskFlag
	KeyBenchmarks  []model.KeyBenchmark
	Weightings     model.Weightings
	Benchmarks     model.Benchmarks
	HasBenchmarks  bool
	SourceDocIDs   []string
	ProcessingTime int64 // nanoseconds, caller converts to time.Duration
	Warnings       []string
}

// Synthesize produces the terminal DealMemo.
func (e *Engine) Synthesize(in Input) model.DealMemo {
	highRisks, mediumRisks, lowRisks := partitionRisks(in.Risks)

	recommendation := e.recommend(in.Score.TotalScore, len(highRisks))

	projection := revenueProjection(in.Analysis.Metrics.Revenue, in.Benchmarks, in.HasBenchmarks)
	checkSize, band := checkSizeSuggestion(in.Score.TotalScore, in.Analysis.Metrics.Funding, in.Analysis.Metrics.Revenue)

	questions := diligenceQuestions(in.Risks, in.Score.RawComponents)

	timeline := diligenceTimeline(recommendation, len(highRisks))

	signal := roundToOneDecimal(in.Score.TotalScore)

	return model.DealMemo{
		Summary: model.Summary{
			CompanyName:    in.Analysis.CompanyProfile.Name,
			OneLiner:       in.Analysis.CompanyProfile.OneLiner,
			Sector:         in.Analysis.CompanyProfile.Sector,
			Stage:          in.Analysis.CompanyProfile.Stage,
			SignalScore:    signal,
			Recommendation: recommendation,
		},
		KeyBenchmarks: in.KeyBenchmarks,
		GrowthPotential: model.GrowthPotential{
			RevenueProjection:   projection,
			CheckSizeSuggestion: checkSize,
			ValuationCapBand:    band,
		},
		RiskAssessment: model.RiskAssessment{
			HighPriorityRisks:   highRisks,
			MediumPriorityRisks: mediumRisks,
			LowPriorityRisks:    lowRisks,
		},
		InvestmentRecommendation: model.InvestmentRecommendation{
			Recommendation:     recommendation,
			Thesis:             thesis(in.Analysis, recommendation, signal),
			DiligenceQuestions: questions,
			Timeline:           timeline,
		},
		AnalysisWeightings: in.Weightings,
		Metadata: model.MemoMetadata{
			GeneratedBy:     "dealflow-core",
			AnalysisVersion: "v1",
			SourceDocuments: in.SourceDocIDs,
			DataQuality:     in.Score.Confidence,
			Warnings:        in.Warnings,
		},
	}
}

// recommend applies the ordered score/risk mapping, first match wins.
func (e *Engine) recommend(score float64, highRiskCount int) model.Recommendation {
	var rec model.Recommendation
	switch {
	case highRiskCount >= 3:
		rec = model.RecommendationPass
	case score >= 80 && highRiskCount == 0:
		rec = model.RecommendationStrongBuy
	case score >= 60 && highRiskCount <= 1:
		rec = model.RecommendationBuy
	case score >= 40:
		rec = model.RecommendationHold
	default:
		rec = model.RecommendationPass
	}
	if rec == model.RecommendationHold && e.config.CollapseHoldIntoPass {
		return model.RecommendationPass
	}
	return rec
}

func partitionRisks(risks []model.RiskFlag) (high, medium, low []model.RiskFlag) {
	for _, r := range risks {
		switch r.Severity {
		case model.SeverityHigh:
			high = append(high, r)
		case model.SeverityMedium:
			medium = append(medium, r)
		default:
			low = append(low, r)
		}
	}
	return
}

// revenueProjection computes year1/3/5 ARR with the decay-toward-sector-
// median function from §4.10.
func revenueProjection(rev model.RevenueMetrics, benchmarks model.Benchmarks, hasBenchmarks bool) model.RevenueProjection {
	if rev.ARR == nil {
		return model.RevenueProjection{}
	}
	arr := *rev.ARR
	growth := 0.0
	if rev.GrowthRate != nil {
		growth = *rev.GrowthRate
	}
	if arr == 0 && growth == 0 {
		return model.RevenueProjection{}
	}

	floor := 0.0
	if hasBenchmarks {
		if bm, ok := benchmarks.Metrics["growthRate"]; ok {
			floor = bm.P50
		}
	}

	year1 := arr * (1 + growth)

	g3 := decay(growth, floor)
	year3 := year1 * (1 + g3) * (1 + g3)

	g5 := decay(g3, floor)
	year5 := year3 * (1 + g5) * (1 + g5)

	return model.RevenueProjection{Year1: year1, Year3: year3, Year5: year5}
}

func decay(growth, floor float64) float64 {
	decayed := growth * 0.8
	if decayed < floor {
		return floor
	}
	return decayed
}

// checkSizeSuggestion is monotonic non-decreasing in score, capped by the
// current ask, and a valuation cap band derived from ARR/stage.
func checkSizeSuggestion(score float64, funding model.FundingMetrics, rev model.RevenueMetrics) (float64, [2]float64) {
	if rev.ARR == nil || *rev.ARR == 0 {
		floor := 250000.0
		return floor, [2]float64{floor, floor * 4}
	}

	pct := clamp(score/100, 0, 1)
	suggested := pct * 0.15 * (*rev.ARR)
	if funding.CurrentAsk != nil && *funding.CurrentAsk > 0 && suggested > *funding.CurrentAsk {
		suggested = *funding.CurrentAsk
	}

	arr := *rev.ARR
	multiple := stageMultiple(funding.Stage)
	low := arr * multiple * 0.8
	high := arr * multiple * 1.3

	return suggested, [2]float64{low, high}
}

func stageMultiple(stage string) float64 {
	switch stage {
	case "pre_seed", "seed":
		return 15
	case "series_a":
		return 10
	case "series_b":
		return 8
	case "series_c":
		return 6
	default:
		return 5
	}
}

func diligenceQuestions(risks []model.RiskFlag, raw model.ComponentScores) []string {
	riskQuestions := map[model.RiskType]string{
		model.RiskFinancialInconsistency: "Which document's financial figures are authoritative, and why do the sources disagree?",
		model.RiskMarketSizeConcern:      "What is the methodology behind the stated market-size figures?",
		model.RiskCompetitiveThreat:      "How does the company plan to defend against the identified competitive threats?",
		model.RiskTeamGap:                "How does the team plan to fill the identified skill gaps?",
		model.RiskProductRisk:            "What is the mitigation plan for the identified product risk?",
		model.RiskRegulatory:             "What regulatory approvals or compliance steps remain outstanding?",
		model.RiskTimelineInconsistency:  "Can the company reconcile the inconsistent founding/funding timeline?",
	}

	var out []string
	seen := make(map[string]bool)
	add := func(q string) {
		if q == "" || seen[q] {
			return
		}
		seen[q] = true
		out = append(out, q)
	}

	sortedRisks := append([]model.RiskFlag(nil), risks...)
	sort.SliceStable(sortedRisks, func(i, j int) bool { return sortedRisks[i].Type < sortedRisks[j].Type })
	for _, r := range sortedRisks {
		add(riskQuestions[r.Type])
	}

	componentQuestions := []struct {
		name  string
		value float64
		q     string
	}{
		{"marketOpportunity", raw.MarketOpportunity, "What evidence supports the claimed market opportunity?"},
		{"team", raw.Team, "What additional hires are planned to strengthen the team?"},
		{"traction", raw.Traction, "What is driving weak traction metrics, and what's the plan to improve them?"},
		{"product", raw.Product, "What is the product roadmap to close the current differentiation gap?"},
		{"competitivePosition", raw.CompetitivePosition, "How defensible is the company's competitive position?"},
	}
	for _, c := range componentQuestions {
		if c.value < 40 {
			add(c.q)
		}
	}

	if len(out) > 8 {
		out = out[:8]
	}
	return out
}

func diligenceTimeline(rec model.Recommendation, highRiskCount int) string {
	switch {
	case rec == model.RecommendationStrongBuy && highRiskCount == 0:
		return "2-3 weeks fast track"
	case highRiskCount >= 1:
		return "6-8 weeks extended"
	default:
		return "4-5 weeks standard"
	}
}

func thesis(analysis model.AnalysisResult, rec model.Recommendation, score float64) string {
	name := analysis.CompanyProfile.Name
	if name == "" {
		name = "the company"
	}
	return fmt.Sprintf("%s scores %.1f/100 on the weighted signal model, supporting a %s recommendation.", name, score, rec)
}

func roundToOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
