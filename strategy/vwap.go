package strategy

import "quantumflow/book"

// sliceDurationMs is the VWAP executor's scheduling granularity: one slice
// per second, per spec.md §4.I.
const sliceDurationMs = 1000

// VWAP paces execution of a total quantity over a horizon, buying when the
// executed-so-far quantity falls behind the volume-profile-weighted
// schedule.
type VWAP struct {
	TotalQty      float64
	HorizonMs     int64
	VolumeProfile []float64 // optional; uniform if nil

	elapsedMs int64
	executed  float64
}

// NewVWAP builds a VWAP executor. A nil profile uses a uniform schedule
// over HorizonMs/1000 slices.
func NewVWAP(totalQty float64, horizonMs int64, profile []float64) *VWAP {
	return &VWAP{TotalQty: totalQty, HorizonMs: horizonMs, VolumeProfile: profile}
}

func (s *VWAP) Name() string { return "vwap_executor" }

func (s *VWAP) totalSlices() int {
	n := int(s.HorizonMs / sliceDurationMs)
	if n <= 0 {
		n = 1
	}
	return n
}

func (s *VWAP) profile() []float64 {
	if len(s.VolumeProfile) > 0 {
		return s.VolumeProfile
	}
	n := s.totalSlices()
	uniform := make([]float64, n)
	share := 1.0 / float64(n)
	for i := range uniform {
		uniform[i] = share
	}
	return uniform
}

func (s *VWAP) currentSlice() int {
	slice := int(s.elapsedMs / sliceDurationMs)
	if last := s.totalSlices() - 1; slice > last {
		slice = last
	}
	return slice
}

func (s *VWAP) target() float64 {
	profile := s.profile()
	slice := s.currentSlice()
	var cumulative float64
	for i := 0; i <= slice && i < len(profile); i++ {
		cumulative += profile[i]
	}
	return s.TotalQty * cumulative
}

func (s *VWAP) complete() bool {
	return s.executed >= s.TotalQty
}

func (s *VWAP) pastHorizon() bool {
	return s.elapsedMs >= s.HorizonMs
}

func (s *VWAP) Evaluate(_ book.Snapshot, _ []Trade) Kind {
	if s.complete() || s.pastHorizon() {
		return Neutral
	}
	if s.executed < s.target() {
		return Buy
	}
	return Neutral
}

func (s *VWAP) Confidence(_ book.Snapshot, _ []Trade, signal Kind) float64 {
	if signal == Neutral {
		return 0
	}
	remaining := s.TotalQty - s.executed
	if remaining <= 0 {
		return 0
	}
	deficit := s.target() - s.executed
	return clamp01(deficit / remaining)
}

// OnTrade advances the executed quantity by every fill.
func (s *VWAP) OnTrade(trade Trade) {
	s.executed += float64(trade.Quantity)
}

// AdvanceTime moves the executor's internal slice clock forward.
func (s *VWAP) AdvanceTime(deltaMs int64) {
	s.elapsedMs += deltaMs
}

func (s *VWAP) Reset() {
	s.elapsedMs = 0
	s.executed = 0
}
