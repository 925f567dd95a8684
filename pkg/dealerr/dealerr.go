// Package dealerr implements the core error taxonomy shared across every
// pipeline stage: a single categorical error type carrying enough metadata
// for a caller to decide whether to retry, degrade, or surface to the user.
package dealerr

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category is a flat (non-hierarchical) error classification.
type Category string

const (
	CategoryValidation         Category = "validation"
	CategoryDocumentProcessing Category = "document_processing"
	CategoryAIService          Category = "ai_service"
	CategoryNetwork            Category = "network"
	CategoryRateLimit          Category = "rate_limit"
	CategoryAuthentication     Category = "authentication"
	CategoryGoogleCloud        Category = "google_cloud"
	CategoryInternal           Category = "internal"
	CategoryCancelled          Category = "cancelled"
	CategoryCircuitOpen        Category = "circuit_open"
)

// Severity ranks how urgently an error needs attention.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// retryableByCategory is the intrinsic retryability of each category.
// Callers must respect this rather than deciding per-call.
var retryableByCategory = map[Category]bool{
	CategoryValidation:         false,
	CategoryDocumentProcessing: false,
	CategoryAIService:          true,
	CategoryNetwork:            true,
	CategoryRateLimit:          true,
	CategoryAuthentication:     false,
	CategoryGoogleCloud:        true,
	CategoryInternal:           false,
	CategoryCancelled:          false,
	CategoryCircuitOpen:        false,
}

// httpStatusHintByCategory gives external collaborators (e.g. the HTTP
// surface, out of scope here) a hint for status-code mapping.
var httpStatusHintByCategory = map[Category]int{
	CategoryValidation:         400,
	CategoryDocumentProcessing: 422,
	CategoryAIService:          502,
	CategoryNetwork:            504,
	CategoryRateLimit:          429,
	CategoryAuthentication:     401,
	CategoryGoogleCloud:        502,
	CategoryInternal:           500,
	CategoryCancelled:          499,
	CategoryCircuitOpen:        503,
}

// Error is the single error type every stage returns for classified
// failures.
type Error struct {
	Category        Category
	Severity        Severity
	Retryable       bool
	HTTPStatusHint  int
	Code            string
	Message         string
	Details         map[string]interface{}
	Timestamp       time.Time
	SuggestedAction string
	Cause           error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds a classified error with the category's intrinsic retryability
// and HTTP hint filled in.
func New(category Category, code, message string) *Error {
	return &Error{
		Category:       category,
		Severity:       SeverityMedium,
		Retryable:      retryableByCategory[category],
		HTTPStatusHint: httpStatusHintByCategory[category],
		Code:           code,
		Message:        message,
		Timestamp:      time.Now(),
	}
}

// Wrap classifies an arbitrary error into the taxonomy, preserving it as
// the Cause for unwrapping.
func Wrap(category Category, code, message string, cause error) *Error {
	e := New(category, code, message)
	e.Cause = cause
	return e
}

// WithSeverity sets severity and returns the receiver for chaining.
func (e *Error) WithSeverity(s Severity) *Error {
	e.Severity = s
	return e
}

// WithSuggestedAction sets the suggested remediation text.
func (e *Error) WithSuggestedAction(action string) *Error {
	e.SuggestedAction = action
	return e
}

// WithDetails attaches structured details.
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	e.Details = details
	return e
}

// IsRetryable reports whether err (classified or not) should be retried.
// Anonymous errors are classified by Classify first.
func IsRetryable(err error) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Retryable
	}
	return Classify(err).Retryable
}

// Classify maps an anonymous error to the taxonomy using textual
// heuristics: recognizable substrings win over the internal-error
// default.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return de
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit"), strings.Contains(msg, "too many requests"):
		return Wrap(CategoryRateLimit, "RATE_LIMITED", err.Error(), err)
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "econnreset"), strings.Contains(msg, "network"):
		return Wrap(CategoryNetwork, "NETWORK_ERROR", err.Error(), err)
	case strings.Contains(msg, "unauthorized"), strings.Contains(msg, "401"), strings.Contains(msg, "permission"):
		return Wrap(CategoryAuthentication, "UNAUTHORIZED", err.Error(), err)
	case strings.Contains(msg, "invalid"), strings.Contains(msg, "schema"):
		return Wrap(CategoryValidation, "INVALID_INPUT", err.Error(), err)
	default:
		return Wrap(CategoryInternal, "INTERNAL_ERROR", err.Error(), err)
	}
}

// Cancelled returns the distinguished non-retryable cancellation error.
func Cancelled() *Error {
	return New(CategoryCancelled, "CANCELLED", "operation was cancelled").
		WithSeverity(SeverityLow)
}

// CircuitOpen returns the distinguished error raised while a circuit
// breaker is open.
func CircuitOpen(service string) *Error {
	return New(CategoryCircuitOpen, "CIRCUIT_OPEN", fmt.Sprintf("circuit %q is open", service)).
		WithSeverity(SeverityHigh).
		WithSuggestedAction("wait for the recovery timeout to elapse before retrying")
}
