package model

import (
	"strings"
	"time"
)

// AnalysisResult composes all per-document-set extracted records, plus
// provenance and the mutable consistencyFlags slice (the only field
// downstream stages may append to after creation).
type AnalysisResult struct {
	AnalysisType        string
	CompanyProfile      CompanyProfile
	Metrics             InvestmentMetrics
	MarketClaims        MarketClaims
	TeamAssessment      TeamAssessment
	ProductProfile      ProductProfile
	CompetitiveAnalysis CompetitiveAnalysis
	Entities            []ExtractedEntity
	Confidence          float64
	ProcessingTime      time.Duration
	SourceDocumentIDs   []string
	ConsistencyFlags    []ConsistencyFlag
}

// ConsistencyFlag is a discrepancy attached to an AnalysisResult by the
// consistency checker.
type ConsistencyFlag struct {
	Metric      string
	Severity    string
	Description string
}

// RiskType is the enumerated taxonomy of risk findings.
type RiskType string

const (
	RiskFinancialInconsistency RiskType = "financial_inconsistency"
	RiskMarketSizeConcern      RiskType = "market_size_concern"
	RiskCompetitiveThreat      RiskType = "competitive_threat"
	RiskTeamGap                RiskType = "team_gap"
	RiskProductRisk            RiskType = "product_risk"
	RiskRegulatory             RiskType = "regulatory"
	RiskTimelineInconsistency  RiskType = "timeline_inconsistency"
)

// Severity is the three-level risk severity.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Label renders the severity the way the memo's risk register does:
// uppercase.
func (s Severity) Label() string {
	return strings.ToUpper(string(s))
}

// MarshalJSON canonicalizes the wire representation to uppercase
// regardless of the lowercase constant used internally for comparisons.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.Label() + `"`), nil
}

// UnmarshalJSON accepts either case on the way in.
func (s *Severity) UnmarshalJSON(data []byte) error {
	trimmed := strings.Trim(string(data), `"`)
	*s = Severity(strings.ToLower(trimmed))
	return nil
}

// RiskFlag is one entry of the risk register.
type RiskFlag struct {
	ID                 string
	Type               RiskType
	Severity           Severity
	Description        string
	AffectedMetrics    []string
	SuggestedMitigation string
	SourceDocuments    []string
}
