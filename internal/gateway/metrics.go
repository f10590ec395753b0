package gateway

import (
	"sync/atomic"
	"time"
)

// Metrics tracks gateway-level counters using atomic operations for lock-free concurrency.
type Metrics struct {
	turns        atomic.Int64
	errors       atomic.Int64
	resets       atomic.Int64
	totalLatency atomic.Int64 // nanoseconds
}

// RecordTurn records a completed turn and its wall-clock latency.
func (m *Metrics) RecordTurn(latency time.Duration) {
	m.turns.Add(1)
	m.totalLatency.Add(int64(latency))
}

// RecordError records a failed turn.
func (m *Metrics) RecordError() {
	m.errors.Add(1)
}

// RecordReset records a conversation reset.
func (m *Metrics) RecordReset() {
	m.resets.Add(1)
}

// Snapshot returns a consistent point-in-time view of the counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	turns := m.turns.Load()
	snap := MetricsSnapshot{
		Turns:  turns,
		Errors: m.errors.Load(),
		Resets: m.resets.Load(),
	}
	if turns > 0 {
		snap.AvgLatency = time.Duration(m.totalLatency.Load() / turns)
	}
	return snap
}

// MetricsSnapshot is a serializable point-in-time metrics view.
type MetricsSnapshot struct {
	Turns      int64         `json:"turns"`
	Errors     int64         `json:"errors"`
	Resets     int64         `json:"resets"`
	AvgLatency time.Duration `json:"avg_latency_ns"`
}
