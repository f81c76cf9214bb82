package telemetry

import "time"

// Snapshot is the per-tick component-wise latency breakdown, all in
// microseconds (spec.md §3 "Latency snapshot").
type Snapshot struct {
	IngestUs   float64
	MatchUs    float64
	StrategyUs float64
	BroadcastUs float64
	TotalUs    float64
}

// Meter accumulates stage boundary timestamps across one tick and derives
// the component-wise Snapshot from them (spec.md §4.L). It holds no
// history beyond the current tick: only the last tick's timings are ever
// exposed.
type Meter struct {
	now func() time.Time

	tickStart  time.Time
	t0, t1, t2, t3 time.Time
	ingestUs   float64
	broadcast  bool
}

// NewMeter builds a Meter using wall-clock time. Tests may swap Meter.now
// for a deterministic clock (teacher's injected-clock pattern).
func NewMeter() *Meter {
	return &Meter{now: time.Now}
}

// StartTick marks t0, the beginning of the ingress-drain stage.
func (m *Meter) StartTick() {
	m.tickStart = m.now()
	m.t0 = m.tickStart
	m.broadcast = false
}

// MarkIngested records ingest_us as given by the caller, independently of
// the t0..t3 boundary markers. The core loop passes the producer-to-
// consumer delay of the most recently applied event (spec.md §4.K step 2),
// carried over unchanged on ticks that apply none.
func (m *Meter) MarkIngested(elapsed time.Duration) {
	m.ingestUs = microseconds(elapsed)
}

// MarkMatched strikes t1, the boundary between book-apply and
// strategy-evaluation stages.
func (m *Meter) MarkMatched() {
	m.t1 = m.now()
}

// MarkStrategiesEvaluated strikes t2, the boundary between strategy
// evaluation and telemetry broadcast.
func (m *Meter) MarkStrategiesEvaluated() {
	m.t2 = m.now()
}

// MarkBroadcast strikes t3 and records that a broadcast happened this
// tick; total_us measures through t3 when present, through t2 otherwise.
func (m *Meter) MarkBroadcast() {
	m.t3 = m.now()
	m.broadcast = true
}

// Snapshot derives the current tick's latency breakdown from the
// boundary marks struck so far.
func (m *Meter) Snapshot() Snapshot {
	matchUs := microseconds(m.t1.Sub(m.t0))
	strategyUs := microseconds(m.t2.Sub(m.t1))

	var broadcastUs, totalUs float64
	if m.broadcast {
		broadcastUs = microseconds(m.t3.Sub(m.t2))
		totalUs = microseconds(m.t3.Sub(m.t0))
	} else {
		totalUs = microseconds(m.t2.Sub(m.t0))
	}

	return Snapshot{
		IngestUs:    m.ingestUs,
		MatchUs:     matchUs,
		StrategyUs:  strategyUs,
		BroadcastUs: broadcastUs,
		TotalUs:     totalUs,
	}
}

func microseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1000.0
}
