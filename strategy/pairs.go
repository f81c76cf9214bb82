package strategy

import (
	"math"

	"quantumflow/book"
)

// Pairs trades the spread between two externally-fed instrument prices
// (p1 - beta*p2), fed via Update since the market-data record covers only
// one symbol's book at a time (spec.md §9, resolved via control API).
type Pairs struct {
	Beta      float64
	Window    int
	ZThreshold float64

	spreads []float64
}

// NewPairs builds a Pairs strategy.
func NewPairs(beta float64, window int, zThreshold float64) *Pairs {
	return &Pairs{Beta: beta, Window: window, ZThreshold: zThreshold}
}

func (s *Pairs) Name() string { return "pairs_trading" }

// Update feeds a new observation of the two legs' prices.
func (s *Pairs) Update(p1, p2 float64) {
	spread := p1 - s.Beta*p2
	s.spreads = append(s.spreads, spread)
	if len(s.spreads) > s.Window {
		s.spreads = s.spreads[len(s.spreads)-s.Window:]
	}
}

func (s *Pairs) zScore() (float64, bool) {
	if len(s.spreads) < s.Window {
		return 0, false
	}
	mean := 0.0
	for _, v := range s.spreads {
		mean += v
	}
	mean /= float64(len(s.spreads))

	var variance float64
	for _, v := range s.spreads {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(s.spreads))
	stddev := math.Sqrt(variance)
	if stddev == 0 {
		return 0, false
	}
	last := s.spreads[len(s.spreads)-1]
	return (last - mean) / stddev, true
}

func (s *Pairs) Evaluate(_ book.Snapshot, _ []Trade) Kind {
	z, ok := s.zScore()
	if !ok {
		return Neutral
	}
	switch {
	case z > s.ZThreshold:
		return ShortPair
	case z < -s.ZThreshold:
		return LongPair
	default:
		return Neutral
	}
}

func (s *Pairs) Confidence(_ book.Snapshot, _ []Trade, signal Kind) float64 {
	if signal == Neutral {
		return 0
	}
	z, ok := s.zScore()
	if !ok {
		return 0
	}
	return clamp01((absFloat(z) - s.ZThreshold) / s.ZThreshold)
}

func (s *Pairs) OnTrade(Trade) {}

func (s *Pairs) Reset() {
	s.spreads = nil
}
