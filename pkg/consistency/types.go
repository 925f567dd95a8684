// Package consistency implements the cross-document consistency checker
// (§4.8): it indexes every metric value seen across an analysis-result
// set, groups values per metric by a metric-specific tolerance, and
// emits discrepancies, missing-data issues, and temporal-logic findings
// deterministically.
package consistency

import (
	"time"

	"dealflow/pkg/model"
)

// MetricValue is one observation of a metric from one source document.
type MetricValue struct {
	Value      interface{} // number | string | date
	Source     string      // source document ID
	Confidence float64
	Context    string
	Timestamp  *time.Time
}

// ValueGroup is an equivalence class of MetricValues under a metric's
// tolerance.
type ValueGroup struct {
	Values         []MetricValue
	MeanConfidence float64
	Representative interface{}
}

// IssueType distinguishes the three finding kinds this stage produces.
type IssueType string

const (
	IssueDiscrepancy            IssueType = "discrepancy"
	IssueMissingData            IssueType = "missing_data"
	IssueTimelineInconsistency  IssueType = "timeline_inconsistency"
)

// Issue is one emitted finding, sorted deterministically by the checker.
type Issue struct {
	Type               IssueType
	Metric             string
	Severity           model.Severity
	Groups             []ValueGroup
	ResolutionSuggestion interface{}
	Description        string
	AffectedDocuments  []string
}

// DocumentSimilarity is one pairwise entry of the similarity matrix.
type DocumentSimilarity struct {
	DocA       string
	DocB       string
	Similarity float64
}

// Report is the complete output of the consistency checker.
type Report struct {
	Issues             []Issue
	SimilarityMatrix   []DocumentSimilarity
	OverallScore       float64
}
