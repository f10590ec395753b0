package gateway

import (
	"sync"
	"testing"
	"time"
)

func TestMetrics_Snapshot(t *testing.T) {
	t.Parallel()

	m := &Metrics{}
	m.RecordTurn(100 * time.Millisecond)
	m.RecordTurn(200 * time.Millisecond)
	m.RecordError()
	m.RecordReset()

	snap := m.Snapshot()

	if snap.Turns != 2 {
		t.Errorf("turns = %d, want 2", snap.Turns)
	}
	if snap.Errors != 1 {
		t.Errorf("errors = %d, want 1", snap.Errors)
	}
	if snap.Resets != 1 {
		t.Errorf("resets = %d, want 1", snap.Resets)
	}
	if snap.AvgLatency != 150*time.Millisecond {
		t.Errorf("avg latency = %v, want %v", snap.AvgLatency, 150*time.Millisecond)
	}
}

func TestMetrics_EmptySnapshot(t *testing.T) {
	t.Parallel()

	m := &Metrics{}
	snap := m.Snapshot()

	if snap.Turns != 0 || snap.Errors != 0 || snap.Resets != 0 {
		t.Errorf("expected zero counters, got %+v", snap)
	}
	if snap.AvgLatency != 0 {
		t.Errorf("avg latency = %v, want 0", snap.AvgLatency)
	}
}

func TestMetrics_ConcurrentRecording(t *testing.T) {
	t.Parallel()

	m := &Metrics{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordTurn(time.Millisecond)
			m.RecordError()
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	if snap.Turns != 50 {
		t.Errorf("turns = %d, want 50", snap.Turns)
	}
	if snap.Errors != 50 {
		t.Errorf("errors = %d, want 50", snap.Errors)
	}
}
