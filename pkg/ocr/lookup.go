package ocr

import (
	"context"

	"dealflow/pkg/resilience"
)

// Capability is the external OCR collaborator the pipeline consumes,
// satisfied directly by *Fallback and by test doubles sharing its
// signature.
type Capability interface {
	Run(ctx context.Context, pageImage []byte, sourceDocumentID string, pageNumber int) (Result, error)
}

var _ Capability = (*Fallback)(nil)

// Lookup is the resilience-gated wrapper the pipeline calls: a nil
// capability, an unavailable service, a breaker trip, or an
// out-of-retries failure all degrade to a "skip OCR" outcome rather
// than failing document processing.
type Lookup struct {
	capability Capability
	breaker    *resilience.CircuitBreaker
	retry      resilience.RetryPolicy
	degrade    *resilience.DegradationManager
}

// NewLookup builds a resilient OCR lookup. capability may be nil, in
// which case Run always reports unavailable.
func NewLookup(capability Capability, breaker *resilience.CircuitBreaker, retry resilience.RetryPolicy, degrade *resilience.DegradationManager) *Lookup {
	return &Lookup{capability: capability, breaker: breaker, retry: retry, degrade: degrade}
}

// Run attempts the OCR fallback chain for one page image. The bool
// result reports whether OCR actually ran; false means the caller
// should fall back to whatever text-layer output it already has.
func (l *Lookup) Run(ctx context.Context, pageImage []byte, sourceDocumentID string, pageNumber int) (Result, bool) {
	if l.capability == nil || !l.degrade.CanProceedDegraded("ocr") {
		return Result{}, false
	}

	var result Result
	err := l.breaker.Call(ctx, func(ctx context.Context) error {
		return resilience.WithRetry(ctx, l.retry, func(ctx context.Context) error {
			r, err := l.capability.Run(ctx, pageImage, sourceDocumentID, pageNumber)
			if err != nil {
				return err
			}
			result = r
			return nil
		})
	})
	if err != nil {
		l.degrade.SetAvailable("ocr", false)
		return Result{}, false
	}
	l.degrade.SetAvailable("ocr", true)
	return result, true
}
