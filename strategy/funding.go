package strategy

import "quantumflow/book"

// FundingArb watches a perpetual-future funding rate against its spot/perp
// basis, fed externally since the core's market-data record carries
// neither (spec.md §9 "External inputs to strategies", resolved in
// SPEC_FULL.md §5 via a control API that calls Update).
type FundingArb struct {
	Threshold float64

	rate float64
	spot float64
	perp float64
}

// NewFundingArb builds a FundingArb strategy with threshold θ.
func NewFundingArb(threshold float64) *FundingArb {
	return &FundingArb{Threshold: threshold}
}

func (s *FundingArb) Name() string { return "funding_arbitrage" }

// Update sets the latest externally-observed funding rate, spot, and perp
// prices ahead of the next Evaluate.
func (s *FundingArb) Update(rate, spot, perp float64) {
	s.rate, s.spot, s.perp = rate, spot, perp
}

func (s *FundingArb) Evaluate(_ book.Snapshot, _ []Trade) Kind {
	switch {
	case s.rate > s.Threshold:
		return LongSpotShortPerp
	case s.rate < -s.Threshold:
		return ShortSpotLongPerp
	default:
		return Neutral
	}
}

func (s *FundingArb) Confidence(_ book.Snapshot, _ []Trade, signal Kind) float64 {
	if signal == Neutral {
		return 0
	}
	fundingScore := clamp01((absFloat(s.rate) - s.Threshold) / s.Threshold)
	var basisScore float64
	if s.spot != 0 {
		basisScore = clamp01(absFloat(s.perp-s.spot) / s.spot / 0.01)
	}
	return clamp01(0.7*fundingScore + 0.3*basisScore)
}

func (s *FundingArb) OnTrade(Trade) {}

func (s *FundingArb) Reset() {
	s.rate, s.spot, s.perp = 0, 0, 0
}
