package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCircuitBreakerTripsAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker("svc", CircuitBreakerConfig{FailureThreshold: 3, RecoveryTimeout: time.Minute})
	failing := func(ctx context.Context) error { return errors.New("boom") }

	for i := 0; i < 3; i++ {
		if err := cb.Call(context.Background(), failing); err == nil {
			t.Fatalf("call %d: expected failure to propagate", i)
		}
	}

	if cb.State() != StateOpen {
		t.Fatalf("state = %v, want open after %d consecutive failures", cb.State(), 3)
	}

	err := cb.Call(context.Background(), func(ctx context.Context) error { return nil })
	if err == nil {
		t.Fatal("expected CircuitOpen rejection while open")
	}
}

func TestCircuitBreakerRecoversThroughHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker("svc", CircuitBreakerConfig{FailureThreshold: 1, RecoveryTimeout: 10 * time.Millisecond})
	_ = cb.Call(context.Background(), func(ctx context.Context) error { return errors.New("boom") })
	if cb.State() != StateOpen {
		t.Fatalf("state = %v, want open", cb.State())
	}

	time.Sleep(15 * time.Millisecond)
	if cb.State() != StateHalfOpen {
		t.Fatalf("state = %v, want half_open after recovery timeout", cb.State())
	}

	err := cb.Call(context.Background(), func(ctx context.Context) error { return nil })
	if err != nil {
		t.Fatalf("probe call failed: %v", err)
	}
	if cb.State() != StateClosed {
		t.Fatalf("state = %v, want closed after successful probe", cb.State())
	}
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker("svc", CircuitBreakerConfig{FailureThreshold: 1, RecoveryTimeout: 5 * time.Millisecond})
	_ = cb.Call(context.Background(), func(ctx context.Context) error { return errors.New("boom") })
	time.Sleep(10 * time.Millisecond)
	if cb.State() != StateHalfOpen {
		t.Fatalf("state = %v, want half_open", cb.State())
	}

	_ = cb.Call(context.Background(), func(ctx context.Context) error { return errors.New("still failing") })
	if cb.State() != StateOpen {
		t.Fatalf("state = %v, want re-opened after failed probe", cb.State())
	}
}

func TestCircuitBreakerCancellationNotCountedAsFailure(t *testing.T) {
	cb := NewCircuitBreaker("svc", CircuitBreakerConfig{FailureThreshold: 1, RecoveryTimeout: time.Minute})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_ = cb.Call(ctx, func(ctx context.Context) error { return ctx.Err() })
	if cb.State() != StateClosed {
		t.Errorf("state = %v, want closed (cancellation should not trip breaker)", cb.State())
	}
}

func TestRegistryReturnsSameBreakerForSameName(t *testing.T) {
	r := NewRegistry(DefaultCircuitBreakerConfig())
	a := r.Get("llm")
	b := r.Get("llm")
	if a != b {
		t.Error("Registry.Get should return the same breaker instance for repeated calls")
	}
	other := r.Get("benchmarks")
	if other == a {
		t.Error("Registry.Get should return distinct breakers for distinct names")
	}
}
