package consistency

import (
	"math"
	"sort"
	"time"

	"dealflow/pkg/model"
)

// Config mirrors pkg/config.ConsistencyConfig without importing it, to
// keep this package dependency-free of the process config surface.
type Config struct {
	ToleranceFinancial  float64
	TolerancePercentage float64
	ToleranceCount      float64
	ToleranceDateDays   int
	CriticalMetrics     []string
	RequireAllDocuments bool
	PrioritizeRecent    bool
}

// metricKind classifies a metric name for tolerance-grouping purposes.
type metricKind int

const (
	kindPercentage metricKind = iota
	kindCount
	kindFinancial
	kindDate
	kindString
)

var percentageMetrics = map[string]bool{
	"growthRate": true, "churnRate": true, "nps": true,
	"customerGrowthRate": true, "conversionRate": true, "grossMargin": true,
}
var countMetrics = map[string]bool{
	"customers": true, "teamSize": true, "foundersCount": true, "activeUsers": true,
}
var financialMetrics = map[string]bool{
	"arr": true, "mrr": true, "totalRaised": true, "valuation": true,
	"tam": true, "sam": true, "lastRoundSize": true, "currentAsk": true,
}
var dateMetrics = map[string]bool{
	"foundedYear": true, "lastRoundDate": true,
}

func classify(metric string) metricKind {
	switch {
	case percentageMetrics[metric]:
		return kindPercentage
	case countMetrics[metric]:
		return kindCount
	case financialMetrics[metric]:
		return kindFinancial
	case dateMetrics[metric]:
		return kindDate
	default:
		return kindString
	}
}

var defaultCriticalMetrics = map[string]bool{
	"arr": true, "mrr": true, "customers": true, "teamSize": true,
	"foundersCount": true, "totalRaised": true, "valuation": true,
	"foundedYear": true, "churnRate": true,
}

// Checker runs the consistency algorithm over an AnalysisResult set.
type Checker struct {
	config   Config
	critical map[string]bool
}

// NewChecker builds a Checker; an empty CriticalMetrics list falls back
// to a fixed default critical set.
func NewChecker(config Config) *Checker {
	critical := defaultCriticalMetrics
	if len(config.CriticalMetrics) > 0 {
		critical = make(map[string]bool, len(config.CriticalMetrics))
		for _, m := range config.CriticalMetrics {
			critical[m] = true
		}
	}
	return &Checker{config: config, critical: critical}
}

// DocumentMetrics is the per-document view the checker indexes: a flat
// metricName -> MetricValue map derived from one AnalysisResult's
// entities, keyed to a single source document ID.
type DocumentMetrics struct {
	DocumentID string
	Metrics    map[string]MetricValue
}

// Check runs the full algorithm (§4.8 steps 1-7) and returns a
// deterministically ordered Report.
func (c *Checker) Check(docs []DocumentMetrics, foundedYear map[string]int) Report {
	index := c.buildIndex(docs)

	var issues []Issue
	for metric, values := range index {
		groups := c.groupBySimilarity(metric, values)
		if len(groups) > 1 {
			issues = append(issues, c.discrepancyIssue(metric, groups))
		}
	}

	if c.config.RequireAllDocuments {
		issues = append(issues, c.missingDataIssues(docs, index)...)
	}

	issues = append(issues, c.temporalIssues(docs, foundedYear)...)

	sortIssues(issues)

	matrix := c.similarityMatrix(docs)
	overall := c.overallScore(issues, len(docs))

	return Report{Issues: issues, SimilarityMatrix: matrix, OverallScore: overall}
}

func (c *Checker) buildIndex(docs []DocumentMetrics) map[string][]MetricValue {
	index := make(map[string][]MetricValue)
	for _, d := range docs {
		for metric, val := range d.Metrics {
			v := val
			v.Source = d.DocumentID
			index[metric] = append(index[metric], v)
		}
	}
	return index
}

func (c *Checker) groupBySimilarity(metric string, values []MetricValue) []ValueGroup {
	kind := classify(metric)
	var groups []ValueGroup

	for _, v := range values {
		placed := false
		for i := range groups {
			if c.sameGroup(kind, groups[i].Representative, v.Value) {
				groups[i].Values = append(groups[i].Values, v)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, ValueGroup{Values: []MetricValue{v}, Representative: v.Value})
		}
	}

	for i := range groups {
		groups[i].MeanConfidence = meanConfidence(groups[i].Values)
	}
	return groups
}

func (c *Checker) sameGroup(kind metricKind, a, b interface{}) bool {
	switch kind {
	case kindPercentage:
		af, aok := toFloat(a)
		bf, bok := toFloat(b)
		if !aok || !bok {
			return false
		}
		return math.Abs(af-bf) <= c.config.TolerancePercentage
	case kindCount:
		af, aok := toFloat(a)
		bf, bok := toFloat(b)
		if !aok || !bok {
			return false
		}
		if af == 0 && bf == 0 {
			return true
		}
		denom := math.Max(math.Abs(af), math.Abs(bf))
		return math.Abs(af-bf)/denom <= c.config.ToleranceCount
	case kindFinancial:
		af, aok := toFloat(a)
		bf, bok := toFloat(b)
		if !aok || !bok {
			return false
		}
		if af == 0 && bf == 0 {
			return true
		}
		denom := math.Max(math.Abs(af), math.Abs(bf))
		return math.Abs(af-bf)/denom <= c.config.ToleranceFinancial
	case kindDate:
		at, aok := toTime(a)
		bt, bok := toTime(b)
		if !aok || !bok {
			return false
		}
		days := math.Abs(at.Sub(bt).Hours() / 24)
		maxDays := float64(c.config.ToleranceDateDays)
		if maxDays <= 0 {
			maxDays = 365
		}
		return days <= maxDays
	default:
		as, aok := a.(string)
		bs, bok := b.(string)
		if !aok || !bok {
			return false
		}
		return equalFoldASCII(as, bs)
	}
}

func (c *Checker) discrepancyIssue(metric string, groups []ValueGroup) Issue {
	severity := model.SeverityMedium
	if c.critical[metric] {
		severity = model.SeverityHigh
	}

	best := bestGroup(groups, c.config.PrioritizeRecent)

	var affected []string
	for _, g := range groups {
		for _, v := range g.Values {
			affected = append(affected, v.Source)
		}
	}

	return Issue{
		Type:                 IssueDiscrepancy,
		Metric:               metric,
		Severity:             severity,
		Groups:               groups,
		ResolutionSuggestion: best.Representative,
		Description:          metric + " disagrees across documents",
		AffectedDocuments:    dedupe(affected),
	}
}

func bestGroup(groups []ValueGroup, prioritizeRecent bool) ValueGroup {
	best := groups[0]
	for _, g := range groups[1:] {
		if g.MeanConfidence > best.MeanConfidence {
			best = g
			continue
		}
		if prioritizeRecent && g.MeanConfidence == best.MeanConfidence {
			if mostRecent(g) > mostRecent(best) {
				best = g
			}
		}
	}
	return best
}

func mostRecent(g ValueGroup) int64 {
	var latest int64
	for _, v := range g.Values {
		if v.Timestamp != nil && v.Timestamp.Unix() > latest {
			latest = v.Timestamp.Unix()
		}
	}
	return latest
}

func (c *Checker) missingDataIssues(docs []DocumentMetrics, index map[string][]MetricValue) []Issue {
	var issues []Issue
	for metric := range c.critical {
		values, ok := index[metric]
		if !ok || len(values) == 0 {
			continue
		}
		present := make(map[string]bool)
		for _, v := range values {
			present[v.Source] = true
		}
		if len(present) < len(docs) {
			var missing []string
			for _, d := range docs {
				if !present[d.DocumentID] {
					missing = append(missing, d.DocumentID)
				}
			}
			issues = append(issues, Issue{
				Type:              IssueMissingData,
				Metric:            metric,
				Severity:          model.SeverityMedium,
				Description:       metric + " missing from some documents",
				AffectedDocuments: missing,
			})
		}
	}
	return issues
}

func (c *Checker) temporalIssues(docs []DocumentMetrics, foundedYear map[string]int) []Issue {
	var issues []Issue
	for _, d := range docs {
		fy, hasFY := foundedYear[d.DocumentID]
		if !hasFY {
			continue
		}
		roundDate, ok := d.Metrics["lastRoundDate"]
		if !ok {
			continue
		}
		rd, ok := toTime(roundDate.Value)
		if !ok {
			continue
		}
		founded := time.Date(fy, time.January, 1, 0, 0, 0, 0, time.UTC)
		if rd.Before(founded) {
			issues = append(issues, Issue{
				Type:              IssueTimelineInconsistency,
				Metric:            "lastRoundDate",
				Severity:          model.SeverityHigh,
				Description:       "funding round date precedes founding year",
				AffectedDocuments: []string{d.DocumentID},
			})
		}
	}
	return issues
}

func (c *Checker) similarityMatrix(docs []DocumentMetrics) []DocumentSimilarity {
	var matrix []DocumentSimilarity
	for i := 0; i < len(docs); i++ {
		for j := i + 1; j < len(docs); j++ {
			matrix = append(matrix, c.pairSimilarity(docs[i], docs[j]))
		}
	}
	return matrix
}

func (c *Checker) pairSimilarity(a, b DocumentMetrics) DocumentSimilarity {
	aligned, conflicting := 0, 0
	for metric, av := range a.Metrics {
		bv, ok := b.Metrics[metric]
		if !ok {
			continue
		}
		kind := classify(metric)
		if c.sameGroup(kind, av.Value, bv.Value) {
			aligned++
		} else {
			conflicting++
		}
	}
	total := aligned + conflicting
	sim := 1.0
	if total > 0 {
		sim = float64(aligned) / float64(total)
	}
	return DocumentSimilarity{DocA: a.DocumentID, DocB: b.DocumentID, Similarity: sim}
}

func (c *Checker) overallScore(issues []Issue, documentCount int) float64 {
	if documentCount == 0 || len(c.critical) == 0 {
		return 1
	}
	penalty := 0.0
	for _, iss := range issues {
		switch iss.Severity {
		case model.SeverityHigh:
			penalty += 3
		case model.SeverityMedium:
			penalty += 2
		default:
			penalty += 1
		}
	}
	denom := float64(len(c.critical) * documentCount)
	score := 1 - penalty/denom
	if score < 0 {
		score = 0
	}
	return score
}

// sortIssues orders findings deterministically: metric name ascending,
// severity descending.
func sortIssues(issues []Issue) {
	severityRank := map[model.Severity]int{
		model.SeverityHigh: 0, model.SeverityMedium: 1, model.SeverityLow: 2,
	}
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Metric != issues[j].Metric {
			return issues[i].Metric < issues[j].Metric
		}
		return severityRank[issues[i].Severity] < severityRank[issues[j].Severity]
	})
}

func meanConfidence(values []MetricValue) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v.Confidence
	}
	return sum / float64(len(values))
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}

func toTime(v interface{}) (time.Time, bool) {
	if t, ok := v.(time.Time); ok {
		return t, true
	}
	return time.Time{}, false
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func dedupe(ss []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
