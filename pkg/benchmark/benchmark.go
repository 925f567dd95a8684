// Package benchmark wraps the external sector-benchmark capability (§4.9a,
// §6) behind the resilience kit: a lookup failure degrades to an empty
// Benchmarks object rather than failing the pipeline.
package benchmark

import (
	"context"

	"dealflow/pkg/model"
	"dealflow/pkg/resilience"
)

// Capability is the external collaborator contract this package consumes.
type Capability interface {
	GetBenchmarks(ctx context.Context, sector string) (model.Benchmarks, error)
}

// Lookup is the resilient wrapper the pipeline calls.
type Lookup struct {
	capability Capability
	breaker    *resilience.CircuitBreaker
	retry      resilience.RetryPolicy
	degrade    *resilience.DegradationManager
}

// NewLookup builds a resilient benchmark lookup.
func NewLookup(capability Capability, breaker *resilience.CircuitBreaker, retry resilience.RetryPolicy, degrade *resilience.DegradationManager) *Lookup {
	return &Lookup{capability: capability, breaker: breaker, retry: retry, degrade: degrade}
}

// Result is the outcome of a benchmark lookup attempt, including whether
// it degraded.
type Result struct {
	Benchmarks model.Benchmarks
	Degraded   bool
	Warning    string
}

// Get attempts to fetch benchmarks for sector; on failure it returns a
// degraded empty result with a warning instead of propagating the
// error, matching the degraded-fallback policy for benchmark errors.
func (l *Lookup) Get(ctx context.Context, sector string) Result {
	if l.capability == nil || !l.degrade.CanProceedDegraded("benchmarks") {
		return Result{Degraded: true, Warning: "benchmarking unavailable"}
	}

	var benchmarks model.Benchmarks
	err := l.breaker.Call(ctx, func(ctx context.Context) error {
		return resilience.WithRetry(ctx, l.retry, func(ctx context.Context) error {
			b, err := l.capability.GetBenchmarks(ctx, sector)
			if err != nil {
				return err
			}
			benchmarks = b
			return nil
		})
	})
	if err != nil {
		l.degrade.SetAvailable("benchmarks", false)
		return Result{Degraded: true, Warning: "benchmarking unavailable"}
	}
	l.degrade.SetAvailable("benchmarks", true)
	return Result{Benchmarks: benchmarks, Degraded: false}
}
