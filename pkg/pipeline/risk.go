package pipeline

import (
	"fmt"
	"sort"

	"dealflow/pkg/consistency"
	"dealflow/pkg/model"
)

// deriveRisks converts consistency issues and qualitative analysis
// signals into the risk register the recommendation engine consumes.
// Financial/timeline discrepancies map directly from consistency issues;
// team/product/market/competitive risks are synthesized from the
// analyzer's narrative fields using the same severity vocabulary.
func deriveRisks(analysis model.AnalysisResult, report consistency.Report) []model.RiskFlag {
	var risks []model.RiskFlag
	seq := 0
	next := func() string {
		seq++
		return fmt.Sprintf("risk-%03d", seq)
	}

	for _, issue := range report.Issues {
		riskType := model.RiskFinancialInconsistency
		if issue.Type == consistency.IssueTimelineInconsistency {
			riskType = model.RiskTimelineInconsistency
		}
		risks = append(risks, model.RiskFlag{
			ID:                  next(),
			Type:                riskType,
			Severity:            issue.Severity,
			Description:         issue.Description,
			AffectedMetrics:     []string{issue.Metric},
			SuggestedMitigation: "Request clarifying documentation and reconcile source figures.",
			SourceDocuments:     issue.AffectedDocuments,
		})
	}

	if len(analysis.TeamAssessment.Gaps) > 0 {
		risks = append(risks, model.RiskFlag{
			ID:                  next(),
			Type:                model.RiskTeamGap,
			Severity:            teamGapSeverity(len(analysis.TeamAssessment.Gaps)),
			Description:         "Team assessment identified gaps: " + joinLimited(analysis.TeamAssessment.Gaps, 3),
			SuggestedMitigation: "Validate hiring plan against identified gaps during diligence calls.",
			SourceDocuments:     analysis.SourceDocumentIDs,
		})
	}

	if len(analysis.CompetitiveAnalysis.Threats) > 0 {
		risks = append(risks, model.RiskFlag{
			ID:                  next(),
			Type:                model.RiskCompetitiveThreat,
			Severity:            competitiveThreatSeverity(analysis.CompetitiveAnalysis),
			Description:         "Competitive threats noted: " + joinLimited(analysis.CompetitiveAnalysis.Threats, 3),
			SuggestedMitigation: "Assess differentiation durability against named competitors.",
			SourceDocuments:     analysis.SourceDocumentIDs,
		})
	}

	if analysis.MarketClaims.TAM == nil || *analysis.MarketClaims.TAM <= 0 {
		risks = append(risks, model.RiskFlag{
			ID:                  next(),
			Type:                model.RiskMarketSizeConcern,
			Severity:            model.SeverityMedium,
			Description:         "No credible total addressable market figure was extracted from the documents provided.",
			SuggestedMitigation: "Request a bottoms-up market sizing analysis.",
			SourceDocuments:     analysis.SourceDocumentIDs,
		})
	}

	if analysis.ProductProfile.Maturity == "" || len(analysis.ProductProfile.Differentiators) == 0 {
		risks = append(risks, model.RiskFlag{
			ID:                  next(),
			Type:                model.RiskProductRisk,
			Severity:            model.SeverityLow,
			Description:         "Product differentiation was not clearly established in the source documents.",
			SuggestedMitigation: "Request a product demo and a competitive teardown.",
			SourceDocuments:     analysis.SourceDocumentIDs,
		})
	}

	sort.SliceStable(risks, func(i, j int) bool {
		return severityRank(risks[i].Severity) > severityRank(risks[j].Severity)
	})
	return risks
}

func severityRank(s model.Severity) int {
	switch s {
	case model.SeverityHigh:
		return 2
	case model.SeverityMedium:
		return 1
	default:
		return 0
	}
}

func teamGapSeverity(gapCount int) model.Severity {
	if gapCount >= 3 {
		return model.SeverityHigh
	}
	if gapCount >= 1 {
		return model.SeverityMedium
	}
	return model.SeverityLow
}

func competitiveThreatSeverity(c model.CompetitiveAnalysis) model.Severity {
	if len(c.Threats) > len(c.Advantages) {
		return model.SeverityHigh
	}
	if len(c.Threats) > 0 {
		return model.SeverityMedium
	}
	return model.SeverityLow
}

func joinLimited(items []string, limit int) string {
	if len(items) > limit {
		items = items[:limit]
	}
	out := ""
	for i, it := range items {
		if i > 0 {
			out += "; "
		}
		out += it
	}
	return out
}

// deriveKeyBenchmarks builds the memo's keyBenchmarks rows from whichever
// extracted metrics have a matching benchmark entry.
func deriveKeyBenchmarks(metrics model.InvestmentMetrics, benchmarks model.Benchmarks, hasBenchmarks bool) []model.KeyBenchmark {
	if !hasBenchmarks {
		return nil
	}
	var rows []model.KeyBenchmark
	add := func(name string, value *float64) {
		if value == nil {
			return
		}
		bm, ok := benchmarks.Metrics[name]
		if !ok {
			return
		}
		rows = append(rows, model.KeyBenchmark{
			MetricName:     name,
			CompanyValue:   *value,
			SectorP50:      bm.P50,
			PercentileRank: percentileRankInt(*value, bm),
		})
	}
	add("arr", metrics.Revenue.ARR)
	add("growthRate", metrics.Revenue.GrowthRate)
	add("churnRate", metrics.Traction.ChurnRate)
	add("customers", metrics.Traction.Customers)
	return rows
}

func percentileRankInt(value float64, bm model.BenchmarkMetric) int {
	switch {
	case value <= bm.P25:
		return 25
	case value <= bm.P50:
		return 50
	case value <= bm.P75:
		return 75
	case value <= bm.P90:
		return 90
	default:
		return 99
	}
}
