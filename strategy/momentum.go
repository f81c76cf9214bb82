package strategy

import "quantumflow/book"

// Momentum tracks a bounded window of mid prices across evaluate calls
// and signals on the trailing return over that window.
type Momentum struct {
	Window    int
	Threshold float64

	mids []float64
}

// NewMomentum builds a Momentum strategy over the given window length.
func NewMomentum(window int, threshold float64) *Momentum {
	return &Momentum{Window: window, Threshold: threshold}
}

func (s *Momentum) Name() string { return "momentum" }

func (s *Momentum) pushMid(mid float64) {
	s.mids = append(s.mids, mid)
	if len(s.mids) > s.Window {
		s.mids = s.mids[len(s.mids)-s.Window:]
	}
}

func (s *Momentum) trailingReturn() (float64, bool) {
	if len(s.mids) < s.Window {
		return 0, false
	}
	first := s.mids[0]
	last := s.mids[len(s.mids)-1]
	if first == 0 {
		return 0, false
	}
	return (last - first) / first, true
}

func (s *Momentum) Evaluate(snap book.Snapshot, _ []Trade) Kind {
	s.pushMid(snap.MidPrice)
	ret, ok := s.trailingReturn()
	if !ok {
		return Neutral
	}
	switch {
	case ret > s.Threshold:
		return Buy
	case ret < -s.Threshold:
		return Sell
	default:
		return Neutral
	}
}

func (s *Momentum) Confidence(_ book.Snapshot, _ []Trade, signal Kind) float64 {
	if signal == Neutral {
		return 0
	}
	ret, ok := s.trailingReturn()
	if !ok {
		return 0
	}
	return clamp01((absFloat(ret) - s.Threshold) / s.Threshold)
}

func (s *Momentum) OnTrade(Trade) {}

func (s *Momentum) Reset() {
	s.mids = nil
}
