package model

import "time"

// RevenueMetrics are all optional: absence is not zero.
type RevenueMetrics struct {
	ARR            *float64
	MRR            *float64
	GrowthRate     *float64
	ProjectedARR   []float64
	GrossMargin    *float64
}

// TractionMetrics captures usage/retention signals.
type TractionMetrics struct {
	Customers           *float64
	CustomerGrowthRate  *float64
	ChurnRate           *float64
	NPS                 *float64
	ActiveUsers         *float64
	ConversionRate      *float64
	LTVCACRatio         *float64
}

// TeamMetrics captures headcount and burn.
type TeamMetrics struct {
	Size          *float64
	FoundersCount *float64
	KeyHires      []string
	BurnRate      *float64
	Runway        *float64
}

// FundingMetrics captures the capitalization history.
type FundingMetrics struct {
	TotalRaised   *float64
	LastRoundSize *float64
	LastRoundDate *time.Time
	CurrentAsk    *float64
	Valuation     *float64
	Stage         string
}

// InvestmentMetrics composes the four nested metric records.
type InvestmentMetrics struct {
	Revenue  RevenueMetrics
	Traction TractionMetrics
	Team     TeamMetrics
	Funding  FundingMetrics
}

// Stage is the funding-stage enum used by CompanyProfile and the memo.
type Stage string

const (
	StagePreSeed  Stage = "pre_seed"
	StageSeed     Stage = "seed"
	StageSeriesA  Stage = "series_a"
	StageSeriesB  Stage = "series_b"
	StageSeriesC  Stage = "series_c"
	StageGrowth   Stage = "growth"
	StageIPO      Stage = "ipo"
)

// CompanyProfile is the narrative identity of the target company.
type CompanyProfile struct {
	Name         string
	OneLiner     string
	Sector       string
	Stage        Stage
	FoundedYear  *int
	Location     string
	Website      string
	Description  string
	SocialLinks  map[string]string
}

// MarketClaims are LLM-populated, all fields optional.
type MarketClaims struct {
	TAM               *float64
	SAM               *float64
	SOM               *float64
	MarketDescription string
	Competitors       []string
	GrowthDrivers     []string
}

// TeamAssessment is LLM-populated, all fields optional.
type TeamAssessment struct {
	Strengths  []string
	Gaps       []string
	Experience string
	Notable    []string
}

// ProductProfile is LLM-populated, all fields optional.
type ProductProfile struct {
	Description     string
	Differentiators []string
	Maturity        string
	Roadmap         []string
}

// CompetitiveAnalysis is LLM-populated, all fields optional.
type CompetitiveAnalysis struct {
	DirectCompetitors   []string
	IndirectCompetitors []string
	Advantages          []string
	Threats             []string
}
