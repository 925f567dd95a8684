package pipeline

import (
	"testing"

	"dealflow/pkg/consistency"
	"dealflow/pkg/model"
)

func tamPtr(v float64) *float64 { return &v }

func TestDeriveRisksIncludesConsistencyIssues(t *testing.T) {
	report := consistency.Report{
		Issues: []consistency.Issue{
			{Type: consistency.IssueDiscrepancy, Metric: "arr", Severity: model.SeverityHigh, Description: "arr mismatch"},
			{Type: consistency.IssueTimelineInconsistency, Metric: "foundedYear", Severity: model.SeverityHigh, Description: "timeline mismatch"},
		},
	}
	analysis := model.AnalysisResult{MarketClaims: model.MarketClaims{TAM: tamPtr(1_000_000)}, ProductProfile: model.ProductProfile{Maturity: "ga", Differentiators: []string{"x"}}}

	risks := deriveRisks(analysis, report)

	var sawFinancial, sawTimeline bool
	for _, r := range risks {
		if r.Type == model.RiskFinancialInconsistency {
			sawFinancial = true
		}
		if r.Type == model.RiskTimelineInconsistency {
			sawTimeline = true
		}
	}
	if !sawFinancial || !sawTimeline {
		t.Errorf("risks = %+v, want both financial_inconsistency and timeline_inconsistency", risks)
	}
}

func TestDeriveRisksFlagsMissingMarketSize(t *testing.T) {
	analysis := model.AnalysisResult{ProductProfile: model.ProductProfile{Maturity: "ga", Differentiators: []string{"x"}}}
	risks := deriveRisks(analysis, consistency.Report{})

	found := false
	for _, r := range risks {
		if r.Type == model.RiskMarketSizeConcern {
			found = true
		}
	}
	if !found {
		t.Error("expected a market_size_concern risk when TAM is absent")
	}
}

func TestDeriveRisksSortsHighestSeverityFirst(t *testing.T) {
	analysis := model.AnalysisResult{
		MarketClaims:   model.MarketClaims{TAM: tamPtr(1)},
		ProductProfile: model.ProductProfile{Maturity: "ga", Differentiators: []string{"x"}},
		TeamAssessment: model.TeamAssessment{Gaps: []string{"g1", "g2", "g3"}},
	}
	risks := deriveRisks(analysis, consistency.Report{})
	if len(risks) == 0 {
		t.Fatal("expected at least one risk")
	}
	if risks[0].Severity != model.SeverityHigh {
		t.Errorf("risks[0].Severity = %v, want high (3 team gaps is a high-severity gap count) got %+v", risks[0].Severity, risks)
	}
}

func TestSeverityRank(t *testing.T) {
	if severityRank(model.SeverityHigh) <= severityRank(model.SeverityMedium) {
		t.Error("high should rank above medium")
	}
	if severityRank(model.SeverityMedium) <= severityRank(model.SeverityLow) {
		t.Error("medium should rank above low")
	}
}

func TestTeamGapSeverity(t *testing.T) {
	tests := []struct {
		count int
		want  model.Severity
	}{
		{0, model.SeverityLow},
		{1, model.SeverityMedium},
		{2, model.SeverityMedium},
		{3, model.SeverityHigh},
	}
	for _, tt := range tests {
		if got := teamGapSeverity(tt.count); got != tt.want {
			t.Errorf("teamGapSeverity(%d) = %v, want %v", tt.count, got, tt.want)
		}
	}
}

func TestCompetitiveThreatSeverity(t *testing.T) {
	tests := []struct {
		name string
		c    model.CompetitiveAnalysis
		want model.Severity
	}{
		{"more threats than advantages", model.CompetitiveAnalysis{Threats: []string{"a", "b"}, Advantages: []string{"x"}}, model.SeverityHigh},
		{"some threats, more advantages", model.CompetitiveAnalysis{Threats: []string{"a"}, Advantages: []string{"x", "y"}}, model.SeverityMedium},
		{"no threats", model.CompetitiveAnalysis{}, model.SeverityLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := competitiveThreatSeverity(tt.c); got != tt.want {
				t.Errorf("competitiveThreatSeverity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJoinLimitedTruncatesAndJoins(t *testing.T) {
	got := joinLimited([]string{"a", "b", "c", "d"}, 2)
	if got != "a; b" {
		t.Errorf("joinLimited() = %q, want %q", got, "a; b")
	}
}

func TestDeriveKeyBenchmarksSkipsWhenUnavailable(t *testing.T) {
	got := deriveKeyBenchmarks(model.InvestmentMetrics{}, model.Benchmarks{}, false)
	if got != nil {
		t.Errorf("got %+v, want nil when benchmarks are unavailable", got)
	}
}

func TestDeriveKeyBenchmarksOnlyIncludesMatchedMetrics(t *testing.T) {
	metrics := model.InvestmentMetrics{Revenue: model.RevenueMetrics{ARR: tamPtr(500)}}
	benchmarks := model.Benchmarks{Metrics: map[string]model.BenchmarkMetric{
		"arr": {P25: 100, P50: 400, P75: 800, P90: 1200},
	}}
	rows := deriveKeyBenchmarks(metrics, benchmarks, true)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1 (only arr has both a value and a benchmark entry)", len(rows))
	}
	if rows[0].MetricName != "arr" || rows[0].PercentileRank != 75 {
		t.Errorf("row = %+v, want arr at the 75th percentile", rows[0])
	}
}

func TestPercentileRankInt(t *testing.T) {
	bm := model.BenchmarkMetric{P25: 100, P50: 200, P75: 300, P90: 400}
	tests := []struct {
		value float64
		want  int
	}{
		{50, 25},
		{150, 50},
		{250, 75},
		{350, 90},
		{500, 99},
	}
	for _, tt := range tests {
		if got := percentileRankInt(tt.value, bm); got != tt.want {
			t.Errorf("percentileRankInt(%v) = %d, want %d", tt.value, got, tt.want)
		}
	}
}
