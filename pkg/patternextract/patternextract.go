// Package patternextract implements the pattern entity extractor (§4.6):
// a fixed catalog of regexes, one per metric, each normalizing matched
// text (monetary unit multipliers, percentage ranges) and validating the
// parsed value.
package patternextract

import (
	"regexp"
	"strconv"
	"strings"

	"dealflow/pkg/model"
)

// Validator checks a normalized numeric value is sane for its metric.
type Validator func(v float64) bool

// MetricSpec is one catalog entry.
type MetricSpec struct {
	Name       string
	Type       model.EntityType
	Pattern    *regexp.Regexp
	Validator  Validator
	Confidence float64
}

func unbounded(float64) bool { return true }
func nonNegative(v float64) bool { return v >= 0 }
func inRange(lo, hi float64) Validator {
	return func(v float64) bool { return v >= lo && v <= hi }
}

// Catalog is the fixed set of metric regexes.
func Catalog() []MetricSpec {
	money := `\$\s?([\d,.]+)\s*([KkMmBbTt]|billion|million|thousand|trillion)?`
	return []MetricSpec{
		{Name: "arr", Type: model.EntityFinancial, Confidence: 0.8, Validator: nonNegative,
			Pattern: regexp.MustCompile(`(?i)` + money + `\s*(?:arr|annual recurring revenue)`)},
		{Name: "mrr", Type: model.EntityFinancial, Confidence: 0.8, Validator: nonNegative,
			Pattern: regexp.MustCompile(`(?i)` + money + `\s*(?:mrr|monthly recurring revenue)`)},
		{Name: "growthRate", Type: model.EntityFinancial, Confidence: 0.75, Validator: nonNegative,
			Pattern: regexp.MustCompile(`(?i)([\d.]+)\s*%\s*(?:mom|m/m|yoy|y/y)?\s*(?:growth|growing)`)},
		{Name: "customers", Type: model.EntityMarket, Confidence: 0.75, Validator: nonNegative,
			Pattern: regexp.MustCompile(`(?i)([\d,]+)\+?\s*customers`)},
		{Name: "churnRate", Type: model.EntityFinancial, Confidence: 0.75, Validator: inRange(0, 100),
			Pattern: regexp.MustCompile(`(?i)([\d.]+)\s*%\s*churn`)},
		{Name: "nps", Type: model.EntityMarket, Confidence: 0.7, Validator: inRange(-100, 100),
			Pattern: regexp.MustCompile(`(?i)nps\s*(?:of|:)?\s*(-?\d+)`)},
		{Name: "teamSize", Type: model.EntityTeam, Confidence: 0.75, Validator: nonNegative,
			Pattern: regexp.MustCompile(`(?i)team\s*of\s*(\d+)`)},
		{Name: "foundersCount", Type: model.EntityTeam, Confidence: 0.7, Validator: nonNegative,
			Pattern: regexp.MustCompile(`(?i)(\d+)\s*co-?founders?`)},
		{Name: "totalRaised", Type: model.EntityFunding, Confidence: 0.8, Validator: nonNegative,
			Pattern: regexp.MustCompile(`(?i)raised\s*` + money)},
		{Name: "valuation", Type: model.EntityFunding, Confidence: 0.8, Validator: nonNegative,
			Pattern: regexp.MustCompile(`(?i)valu(?:ation|ed at)\s*(?:of)?\s*` + money)},
		{Name: "tam", Type: model.EntityMarket, Confidence: 0.7, Validator: nonNegative,
			Pattern: regexp.MustCompile(`(?i)` + money + `\s*tam\b|tam\s*(?:of)?\s*` + money)},
		{Name: "sam", Type: model.EntityMarket, Confidence: 0.7, Validator: nonNegative,
			Pattern: regexp.MustCompile(`(?i)` + money + `\s*sam\b|sam\s*(?:of)?\s*` + money)},
		{Name: "foundedYear", Type: model.EntityCompany, Confidence: 0.75, Validator: inRange(1900, 2100),
			Pattern: regexp.MustCompile(`(?i)founded\s*(?:in)?\s*(\d{4})`)},
	}
}

// ParseMoney normalizes a matched numeric string + optional unit suffix
// into an integer-scale dollar amount (K=1e3, M=1e6, B=1e9, T=1e12).
func ParseMoney(numStr, unit string) (float64, bool) {
	clean := strings.ReplaceAll(numStr, ",", "")
	value, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}

	multiplier := 1.0
	switch strings.ToLower(unit) {
	case "k", "thousand":
		multiplier = 1e3
	case "m", "million":
		multiplier = 1e6
	case "b", "billion":
		multiplier = 1e9
	case "t", "trillion":
		multiplier = 1e12
	}
	return value * multiplier, true
}
