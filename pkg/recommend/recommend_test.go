package recommend

import (
	"testing"

	"dealflow/pkg/model"
)

func fp(v float64) *float64 { return &v }

func TestRecommendOrderedMapping(t *testing.T) {
	e := NewEngine(Config{})
	tests := []struct {
		name          string
		score         float64
		highRiskCount int
		want          model.Recommendation
	}{
		{"three high risks forces pass regardless of score", 90, 3, model.RecommendationPass},
		{"strong buy", 85, 0, model.RecommendationStrongBuy},
		{"strong buy needs zero high risks", 85, 1, model.RecommendationBuy},
		{"buy", 65, 1, model.RecommendationBuy},
		{"hold", 45, 0, model.RecommendationHold},
		{"pass below hold threshold", 20, 0, model.RecommendationPass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.recommend(tt.score, tt.highRiskCount)
			if got != tt.want {
				t.Errorf("recommend(%v, %d) = %v, want %v", tt.score, tt.highRiskCount, got, tt.want)
			}
		})
	}
}

func TestRecommendCollapsesHoldIntoPassWhenConfigured(t *testing.T) {
	e := NewEngine(Config{CollapseHoldIntoPass: true})
	got := e.recommend(45, 0)
	if got != model.RecommendationPass {
		t.Errorf("recommend() = %v, want pass with CollapseHoldIntoPass set", got)
	}
}

func TestPartitionRisksBySeverity(t *testing.T) {
	risks := []model.RiskFlag{
		{ID: "r1", Severity: model.SeverityHigh},
		{ID: "r2", Severity: model.SeverityMedium},
		{ID: "r3", Severity: model.SeverityLow},
		{ID: "r4", Severity: model.SeverityHigh},
	}
	high, medium, low := partitionRisks(risks)
	if len(high) != 2 || len(medium) != 1 || len(low) != 1 {
		t.Errorf("partition = high:%d medium:%d low:%d, want 2/1/1", len(high), len(medium), len(low))
	}
}

func TestRevenueProjectionNoARRIsZeroValue(t *testing.T) {
	got := revenueProjection(model.RevenueMetrics{}, model.Benchmarks{}, false)
	if got != (model.RevenueProjection{}) {
		t.Errorf("got %+v, want zero value", got)
	}
}

func TestRevenueProjectionGrowsThenDecays(t *testing.T) {
	rev := model.RevenueMetrics{ARR: fp(1_000_000), GrowthRate: fp(1.0)}
	got := revenueProjection(rev, model.Benchmarks{}, false)
	if got.Year1 != 2_000_000 {
		t.Errorf("Year1 = %v, want 2000000", got.Year1)
	}
	if got.Year3 <= got.Year1 {
		t.Errorf("Year3 (%v) should exceed Year1 (%v)", got.Year3, got.Year1)
	}
	if got.Year5 <= got.Year3 {
		t.Errorf("Year5 (%v) should exceed Year3 (%v)", got.Year5, got.Year3)
	}
}

func TestCheckSizeSuggestionFloorsWhenNoARR(t *testing.T) {
	size, band := checkSizeSuggestion(90, model.FundingMetrics{}, model.RevenueMetrics{})
	if size != 250000 {
		t.Errorf("size = %v, want the 250000 floor", size)
	}
	if band[0] != 250000 || band[1] != 1000000 {
		t.Errorf("band = %v, want [250000, 1000000]", band)
	}
}

func TestCheckSizeSuggestionCappedByCurrentAsk(t *testing.T) {
	rev := model.RevenueMetrics{ARR: fp(10_000_000)}
	funding := model.FundingMetrics{CurrentAsk: fp(50_000), Stage: "seed"}
	size, _ := checkSizeSuggestion(100, funding, rev)
	if size != 50_000 {
		t.Errorf("size = %v, want capped at current ask 50000", size)
	}
}

func TestStageMultiple(t *testing.T) {
	tests := map[string]float64{"seed": 15, "series_a": 10, "series_b": 8, "series_c": 6, "series_d": 5, "": 5}
	for stage, want := range tests {
		if got := stageMultiple(stage); got != want {
			t.Errorf("stageMultiple(%q) = %v, want %v", stage, got, want)
		}
	}
}

func TestDiligenceQuestionsDedupesAndCaps(t *testing.T) {
	risks := []model.RiskFlag{
		{Type: model.RiskFinancialInconsistency},
		{Type: model.RiskFinancialInconsistency},
		{Type: model.RiskMarketSizeConcern},
	}
	raw := model.ComponentScores{MarketOpportunity: 10, Team: 10, Traction: 10, Product: 10, CompetitivePosition: 10}
	got := diligenceQuestions(risks, raw)
	if len(got) > 8 {
		t.Errorf("len(got) = %d, want at most 8", len(got))
	}
	seen := map[string]bool{}
	for _, q := range got {
		if seen[q] {
			t.Errorf("duplicate question: %q", q)
		}
		seen[q] = true
	}
}

func TestDiligenceTimeline(t *testing.T) {
	if got := diligenceTimeline(model.RecommendationStrongBuy, 0); got != "2-3 weeks fast track" {
		t.Errorf("got %q", got)
	}
	if got := diligenceTimeline(model.RecommendationBuy, 2); got != "6-8 weeks extended" {
		t.Errorf("got %q", got)
	}
	if got := diligenceTimeline(model.RecommendationHold, 0); got != "4-5 weeks standard" {
		t.Errorf("got %q", got)
	}
}

func TestSynthesizeProducesSummaryAndMetadata(t *testing.T) {
	e := NewEngine(Config{})
	in := Input{
		Analysis: model.AnalysisResult{
			CompanyProfile: model.CompanyProfile{Name: "Acme", Sector: "SaaS"},
		},
		Score:        model.ScoreBreakdown{TotalScore: 72.34, Confidence: 0.9},
		SourceDocIDs: []string{"pitch.pdf"},
	}
	memo := e.Synthesize(in)
	if memo.Summary.CompanyName != "Acme" {
		t.Errorf("CompanyName = %q, want Acme", memo.Summary.CompanyName)
	}
	if memo.Summary.SignalScore != 72.3 {
		t.Errorf("SignalScore = %v, want 72.3 (rounded)", memo.Summary.SignalScore)
	}
	if memo.Summary.Recommendation != model.RecommendationBuy {
		t.Errorf("Recommendation = %v, want buy", memo.Summary.Recommendation)
	}
	if len(memo.Metadata.SourceDocuments) != 1 {
		t.Errorf("SourceDocuments = %v", memo.Metadata.SourceDocuments)
	}
}
