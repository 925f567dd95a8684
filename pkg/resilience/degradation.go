package resilience

import "sync"

// DegradationConfig names the services that are critical: any one of them
// being unavailable blocks degraded operation entirely.
type DegradationConfig struct {
	CriticalServices []string
}

// DefaultDegradationConfig treats only "llm" as critical by default.
func DefaultDegradationConfig() DegradationConfig {
	return DegradationConfig{CriticalServices: []string{"llm"}}
}

// DegradationManager is the process-wide availability registry.
type DegradationManager struct {
	mu        sync.RWMutex
	available map[string]bool
	critical  map[string]bool
}

// NewDegradationManager creates a manager with every service assumed
// available until told otherwise.
func NewDegradationManager(config DegradationConfig) *DegradationManager {
	critical := make(map[string]bool, len(config.CriticalServices))
	for _, s := range config.CriticalServices {
		critical[s] = true
	}
	return &DegradationManager{
		available: make(map[string]bool),
		critical:  critical,
	}
}

// SetAvailable records whether service is currently available.
func (d *DegradationManager) SetAvailable(service string, available bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.available[service] = available
}

// IsAvailable reports a service's recorded availability; unknown services
// default to available.
func (d *DegradationManager) IsAvailable(service string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	avail, known := d.available[service]
	if !known {
		return true
	}
	return avail
}

// CanProceedDegraded reports whether a request may proceed in a degraded
// mode: true iff every service recorded as unavailable is non-critical.
// services names what the caller depends on; the check covers every
// recorded service, so an unavailable critical service blocks all callers.
func (d *DegradationManager) CanProceedDegraded(services ...string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for svc, avail := range d.available {
		if !avail && d.critical[svc] {
			return false
		}
	}
	return true
}
