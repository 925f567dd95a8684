package resilience

import "sync"

// Sample is a single recorded operation outcome.
type Sample struct {
	Success    bool
	DurationMS int64
}

// MetricsRecorder is the bounded, process-wide performance-metrics ring
// buffer: at most maxPerOperation samples per operation name, oldest
// evicted first.
type MetricsRecorder struct {
	mu             sync.Mutex
	maxPerOp       int
	alertErrorRate float64
	samples        map[string][]Sample
}

// NewMetricsRecorder creates a recorder bounded at maxPerOp samples per
// operation name (spec default 100), alerting when an operation's error
// rate exceeds alertErrorRate (spec default 0.5).
func NewMetricsRecorder(maxPerOp int, alertErrorRate float64) *MetricsRecorder {
	if maxPerOp <= 0 {
		maxPerOp = 100
	}
	return &MetricsRecorder{
		maxPerOp:       maxPerOp,
		alertErrorRate: alertErrorRate,
		samples:        make(map[string][]Sample),
	}
}

// Record appends a sample for op, evicting the oldest if the buffer is
// full.
func (m *MetricsRecorder) Record(op string, success bool, durationMS int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf := m.samples[op]
	buf = append(buf, Sample{Success: success, DurationMS: durationMS})
	if len(buf) > m.maxPerOp {
		buf = buf[len(buf)-m.maxPerOp:]
	}
	m.samples[op] = buf
}

// ErrorRate returns op's current error rate over its retained window, or
// 0 if no samples exist.
func (m *MetricsRecorder) ErrorRate(op string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf := m.samples[op]
	if len(buf) == 0 {
		return 0
	}
	failures := 0
	for _, s := range buf {
		if !s.Success {
			failures++
		}
	}
	return float64(failures) / float64(len(buf))
}

// ShouldAlert reports whether op's error rate has crossed the configured
// threshold.
func (m *MetricsRecorder) ShouldAlert(op string) bool {
	return m.ErrorRate(op) > m.alertErrorRate
}
