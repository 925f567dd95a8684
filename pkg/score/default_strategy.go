package score

import (
	"math"

	"dealflow/pkg/model"
)

// DefaultStrategy is the reference raw-component-score implementation.
// Each sub-score is a deterministic function of its inputs; the absence
// of an input field contributes 0 to that component, per spec §4.9c.
type DefaultStrategy struct{}

func clamp0to100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// percentileRank maps a value against a benchmark's quartile vector to a
// 0-100 rank via piecewise-linear interpolation across {0,p25,p50,p75,p90,2*p90}.
func percentileRank(value float64, bench model.BenchmarkMetric) float64 {
	points := []struct {
		rank float64
		val  float64
	}{
		{0, 0},
		{25, bench.P25},
		{50, bench.P50},
		{75, bench.P75},
		{90, bench.P90},
		{100, bench.P90 * 2},
	}
	if value <= points[0].val {
		return 0
	}
	for i := 1; i < len(points); i++ {
		if value <= points[i].val {
			lo, hi := points[i-1], points[i]
			if hi.val == lo.val {
				return hi.rank
			}
			frac := (value - lo.val) / (hi.val - lo.val)
			return lo.rank + frac*(hi.rank-lo.rank)
		}
	}
	return 100
}

func (DefaultStrategy) RawComponents(in Inputs) model.ComponentScores {
	return model.ComponentScores{
		MarketOpportunity:   marketOpportunityScore(in),
		Team:                teamScore(in),
		Traction:            tractionScore(in),
		Product:             productScore(in),
		CompetitivePosition: competitiveScore(in),
	}
}

func marketOpportunityScore(in Inputs) float64 {
	score := 0.0
	if in.Market.TAM != nil {
		tam := *in.Market.TAM
		if in.HasBenchmarks {
			if bm, ok := in.Benchmarks.Metrics["tam"]; ok {
				score += 0.6 * percentileRank(tam, bm)
			} else {
				score += 0.6 * clamp0to100(math.Log10(tam+1)*6)
			}
		} else {
			score += 0.6 * clamp0to100(math.Log10(tam+1)*6)
		}
	}
	if len(in.Market.GrowthDrivers) > 0 {
		score += clamp0to100(float64(len(in.Market.GrowthDrivers)) * 8)
	}
	return clamp0to100(score)
}

func teamScore(in Inputs) float64 {
	score := 0.0
	t := in.Metrics.Team
	if t.Size != nil {
		score += 0.3 * clamp0to100(*t.Size*3)
	}
	if t.FoundersCount != nil {
		fc := *t.FoundersCount
		switch {
		case fc >= 2 && fc <= 4:
			score += 20
		case fc == 1:
			score += 10
		}
	}
	if len(t.KeyHires) > 0 {
		score += clamp0to100(float64(len(t.KeyHires)) * 10)
	}
	if len(in.Team.Strengths) > 0 {
		score += clamp0to100(float64(len(in.Team.Strengths)) * 6)
	}
	if len(in.Team.Gaps) > 0 {
		score -= clamp0to100(float64(len(in.Team.Gaps)) * 5)
	}
	return clamp0to100(score)
}

func tractionScore(in Inputs) float64 {
	score := 0.0
	tr := in.Metrics.Traction
	if tr.Customers != nil {
		if in.HasBenchmarks {
			if bm, ok := in.Benchmarks.Metrics["customers"]; ok {
				score += 0.3 * percentileRank(*tr.Customers, bm)
			} else {
				score += 0.3 * clamp0to100(math.Log10(*tr.Customers+1)*15)
			}
		} else {
			score += 0.3 * clamp0to100(math.Log10(*tr.Customers+1)*15)
		}
	}
	if tr.CustomerGrowthRate != nil {
		score += 0.25 * clamp0to100(*tr.CustomerGrowthRate*2)
	}
	if tr.ChurnRate != nil {
		score += 0.2 * clamp0to100(100-(*tr.ChurnRate*10))
	}
	if tr.NPS != nil {
		score += 0.15 * clamp0to100((*tr.NPS+100)/2)
	}
	if tr.LTVCACRatio != nil {
		score += 0.1 * clamp0to100(*tr.LTVCACRatio*20)
	}
	return clamp0to100(score)
}

func productScore(in Inputs) float64 {
	score := 0.0
	if in.Metrics.Revenue.GrossMargin != nil {
		score += 0.4 * clamp0to100(*in.Metrics.Revenue.GrossMargin)
	}
	if len(in.Product.Differentiators) > 0 {
		score += clamp0to100(float64(len(in.Product.Differentiators)) * 12)
	}
	switch in.Product.Maturity {
	case "ga", "mature":
		score += 15
	case "beta":
		score += 8
	}
	return clamp0to100(score)
}

func competitiveScore(in Inputs) float64 {
	advantages := len(in.Competitive.Advantages)
	threats := len(in.Competitive.Threats)
	directCompetitors := len(in.Competitive.DirectCompetitors)

	score := clamp0to100(float64(advantages)*15 - float64(threats)*10)
	if directCompetitors == 0 {
		score += 10
	} else if directCompetitors > 5 {
		score -= 10
	}
	return clamp0to100(score)
}
