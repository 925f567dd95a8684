package resilience

import (
	"context"
	"sync"
	"time"

	"dealflow/pkg/dealerr"
)

// State is one of the three circuit-breaker states.
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half_open"
)

// CircuitBreakerConfig configures consecutive-failure based tripping.
type CircuitBreakerConfig struct {
	FailureThreshold int
	RecoveryTimeout  time.Duration
}

// DefaultCircuitBreakerConfig is the out-of-the-box breaker configuration.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		RecoveryTimeout:  60 * time.Second,
	}
}

// CircuitBreaker guards a single logical external service. It is safe for
// concurrent use; under half_open, at most one caller is admitted to probe
// while all others are rejected with CircuitOpen until the probe resolves.
type CircuitBreaker struct {
	name   string
	config CircuitBreakerConfig

	mu            sync.Mutex
	state         State
	consecFails   int
	openedAt      time.Time
	probeInFlight bool
}

// NewCircuitBreaker creates a breaker in the closed state.
func NewCircuitBreaker(name string, config CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		name:   name,
		config: config,
		state:  StateClosed,
	}
}

func (cb *CircuitBreaker) Name() string { return cb.name }

func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentStateLocked()
}

// currentStateLocked resolves open->half_open transitions lazily on read.
func (cb *CircuitBreaker) currentStateLocked() State {
	if cb.state == StateOpen && time.Since(cb.openedAt) >= cb.config.RecoveryTimeout {
		cb.state = StateHalfOpen
		cb.probeInFlight = false
	}
	return cb.state
}

// Call executes op if the breaker allows it, updating state based on the
// outcome. Cancellation is propagated without counting as a failure.
func (cb *CircuitBreaker) Call(ctx context.Context, op Operation) error {
	cb.mu.Lock()
	state := cb.currentStateLocked()

	switch state {
	case StateOpen:
		cb.mu.Unlock()
		return dealerr.CircuitOpen(cb.name)
	case StateHalfOpen:
		if cb.probeInFlight {
			cb.mu.Unlock()
			return dealerr.CircuitOpen(cb.name)
		}
		cb.probeInFlight = true
	}
	cb.mu.Unlock()

	err := op(ctx)

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if ctx.Err() != nil {
		cb.probeInFlight = false
		return err
	}

	if err != nil {
		cb.recordFailureLocked()
		return err
	}
	cb.recordSuccessLocked()
	return nil
}

func (cb *CircuitBreaker) recordFailureLocked() {
	switch cb.state {
	case StateHalfOpen:
		cb.trip()
	case StateClosed:
		cb.consecFails++
		if cb.consecFails >= cb.config.FailureThreshold {
			cb.trip()
		}
	}
}

func (cb *CircuitBreaker) recordSuccessLocked() {
	switch cb.state {
	case StateHalfOpen:
		cb.state = StateClosed
		cb.consecFails = 0
		cb.probeInFlight = false
	case StateClosed:
		cb.consecFails = 0
	}
}

func (cb *CircuitBreaker) trip() {
	cb.state = StateOpen
	cb.openedAt = time.Now()
	cb.consecFails = 0
	cb.probeInFlight = false
}

// Registry is the process-wide table of circuit breakers keyed by
// service name, shared as a singleton across callers.
type Registry struct {
	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
	config   CircuitBreakerConfig
}

// NewRegistry creates a registry using config for any breaker it lazily
// creates via Get.
func NewRegistry(config CircuitBreakerConfig) *Registry {
	return &Registry{
		breakers: make(map[string]*CircuitBreaker),
		config:   config,
	}
}

// Get returns the breaker for name, creating it on first use.
func (r *Registry) Get(name string) *CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cb, ok := r.breakers[name]; ok {
		return cb
	}
	cb := NewCircuitBreaker(name, r.config)
	r.breakers[name] = cb
	return cb
}
