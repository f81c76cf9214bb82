package telemetry

import (
	"testing"
	"time"
)

func fakeClock(start time.Time, steps ...time.Duration) func() time.Time {
	t := start
	calls := 0
	return func() time.Time {
		if calls > 0 && calls-1 < len(steps) {
			t = t.Add(steps[calls-1])
		}
		calls++
		return t
	}
}

func TestMeterComputesPerStageLatency(t *testing.T) {
	start := time.Unix(0, 0)
	m := &Meter{now: fakeClock(start,
		2*time.Microsecond, // t1 = +2us from t0
		3*time.Microsecond, // t2 = +3us from t1
		5*time.Microsecond, // t3 = +5us from t2
	)}

	m.StartTick()
	m.MarkIngested(7 * time.Microsecond)
	m.MarkMatched()
	m.MarkStrategiesEvaluated()
	m.MarkBroadcast()

	snap := m.Snapshot()
	if snap.IngestUs != 7 {
		t.Fatalf("expected ingest_us=7, got %v", snap.IngestUs)
	}
	if snap.MatchUs != 2 {
		t.Fatalf("expected match_us=2, got %v", snap.MatchUs)
	}
	if snap.StrategyUs != 3 {
		t.Fatalf("expected strategy_us=3, got %v", snap.StrategyUs)
	}
	if snap.BroadcastUs != 5 {
		t.Fatalf("expected broadcast_us=5, got %v", snap.BroadcastUs)
	}
	if snap.TotalUs != 10 {
		t.Fatalf("expected total_us=10 (t3-t0), got %v", snap.TotalUs)
	}
}

func TestMeterTotalExcludesBroadcastWhenNoneOccurred(t *testing.T) {
	start := time.Unix(0, 0)
	m := &Meter{now: fakeClock(start,
		2*time.Microsecond,
		3*time.Microsecond,
	)}

	m.StartTick()
	m.MarkMatched()
	m.MarkStrategiesEvaluated()

	snap := m.Snapshot()
	if snap.BroadcastUs != 0 {
		t.Fatalf("expected broadcast_us=0 when no broadcast occurred, got %v", snap.BroadcastUs)
	}
	if snap.TotalUs != 5 {
		t.Fatalf("expected total_us=5 (t2-t0), got %v", snap.TotalUs)
	}
}
