package consistency

import (
	"testing"
	"time"

	"dealflow/pkg/model"
)

func defaultConfig() Config {
	return Config{
		ToleranceFinancial:  0.1,
		TolerancePercentage: 2,
		ToleranceCount:      0.1,
		ToleranceDateDays:   180,
	}
}

func TestCheckFlagsFinancialDiscrepancy(t *testing.T) {
	c := NewChecker(defaultConfig())
	docs := []DocumentMetrics{
		{DocumentID: "pitch.pdf", Metrics: map[string]MetricValue{
			"arr": {Value: 1_000_000.0, Source: "pitch.pdf", Confidence: 0.8},
		}},
		{DocumentID: "financials.xlsx", Metrics: map[string]MetricValue{
			"arr": {Value: 3_000_000.0, Source: "financials.xlsx", Confidence: 0.9},
		}},
	}

	report := c.Check(docs, nil)
	if len(report.Issues) != 1 {
		t.Fatalf("Issues = %d, want 1 (got %+v)", len(report.Issues), report.Issues)
	}
	issue := report.Issues[0]
	if issue.Type != IssueDiscrepancy || issue.Metric != "arr" {
		t.Errorf("issue = %+v, want arr discrepancy", issue)
	}
	if issue.Severity != model.SeverityHigh {
		t.Errorf("Severity = %v, want high (arr is a critical metric)", issue.Severity)
	}
}

func TestCheckWithinToleranceProducesNoDiscrepancy(t *testing.T) {
	c := NewChecker(defaultConfig())
	docs := []DocumentMetrics{
		{DocumentID: "a", Metrics: map[string]MetricValue{"arr": {Value: 1_000_000.0, Confidence: 0.8}}},
		{DocumentID: "b", Metrics: map[string]MetricValue{"arr": {Value: 1_020_000.0, Confidence: 0.8}}},
	}
	report := c.Check(docs, nil)
	if len(report.Issues) != 0 {
		t.Errorf("Issues = %+v, want none (values are within a 10%% tolerance)", report.Issues)
	}
}

func TestCheckFlagsTimelineInconsistency(t *testing.T) {
	c := NewChecker(defaultConfig())
	roundDate := time.Date(2015, time.June, 1, 0, 0, 0, 0, time.UTC)
	docs := []DocumentMetrics{
		{DocumentID: "pitch.pdf", Metrics: map[string]MetricValue{
			"lastRoundDate": {Value: roundDate},
		}},
	}
	report := c.Check(docs, map[string]int{"pitch.pdf": 2020})

	found := false
	for _, iss := range report.Issues {
		if iss.Type == IssueTimelineInconsistency {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a timeline inconsistency issue, got %+v", report.Issues)
	}
}

func TestCheckMissingDataRequiresAllDocuments(t *testing.T) {
	cfg := defaultConfig()
	cfg.RequireAllDocuments = true
	c := NewChecker(cfg)
	docs := []DocumentMetrics{
		{DocumentID: "a", Metrics: map[string]MetricValue{"arr": {Value: 1_000_000.0, Confidence: 0.8}}},
		{DocumentID: "b", Metrics: map[string]MetricValue{}},
	}
	report := c.Check(docs, nil)

	found := false
	for _, iss := range report.Issues {
		if iss.Type == IssueMissingData && iss.Metric == "arr" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a missing-data issue for arr, got %+v", report.Issues)
	}
}

func TestSimilarityMatrixPerfectAlignment(t *testing.T) {
	c := NewChecker(defaultConfig())
	docs := []DocumentMetrics{
		{DocumentID: "a", Metrics: map[string]MetricValue{"arr": {Value: 1_000_000.0}}},
		{DocumentID: "b", Metrics: map[string]MetricValue{"arr": {Value: 1_000_000.0}}},
	}
	report := c.Check(docs, nil)
	if len(report.SimilarityMatrix) != 1 {
		t.Fatalf("SimilarityMatrix = %d entries, want 1", len(report.SimilarityMatrix))
	}
	if report.SimilarityMatrix[0].Similarity != 1.0 {
		t.Errorf("Similarity = %v, want 1.0 for identical metrics", report.SimilarityMatrix[0].Similarity)
	}
}

func TestOverallScoreDropsWithHighSeverityIssues(t *testing.T) {
	c := NewChecker(defaultConfig())
	docs := []DocumentMetrics{
		{DocumentID: "a", Metrics: map[string]MetricValue{"arr": {Value: 1_000_000.0, Confidence: 0.8}}},
		{DocumentID: "b", Metrics: map[string]MetricValue{"arr": {Value: 5_000_000.0, Confidence: 0.8}}},
	}
	report := c.Check(docs, nil)
	if report.OverallScore >= 1.0 {
		t.Errorf("OverallScore = %v, want less than 1.0 with a high-severity discrepancy present", report.OverallScore)
	}
}
