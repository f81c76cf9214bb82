package strategy

import (
	"quantumflow/book"
	"quantumflow/ingress"
)

// Liquidity flags hidden ("iceberg") liquidity by watching for repeated
// fills clustered near the current best on one side.
type Liquidity struct {
	MinFills  float64
	MinVolume float64
	PriceTol  float64
}

// NewLiquidity builds a Liquidity detector.
func NewLiquidity(minFills, minVolume, priceTol float64) *Liquidity {
	return &Liquidity{MinFills: minFills, MinVolume: minVolume, PriceTol: priceTol}
}

func (s *Liquidity) Name() string { return "liquidity_detector" }

// sideStrength computes min(fill_count/min_fills, total_volume/min_volume)
// among recent trades of the given book side within PriceTol of best.
func (s *Liquidity) sideStrength(recent []Trade, side sideFilter, best float64) float64 {
	if best == 0 {
		return 0
	}
	var count, volume float64
	for _, t := range recent {
		if !side(t) {
			continue
		}
		if absFloat(t.Price-best) > s.PriceTol {
			continue
		}
		count++
		volume += float64(t.Quantity)
	}
	fillRatio := safeRatio(count, s.MinFills)
	volRatio := safeRatio(volume, s.MinVolume)
	if fillRatio < volRatio {
		return fillRatio
	}
	return volRatio
}

type sideFilter func(Trade) bool

func isBidFill(t Trade) bool { return t.Side == ingress.Buy }
func isAskFill(t Trade) bool { return t.Side == ingress.Sell }

func safeRatio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}

func (s *Liquidity) strengths(snap book.Snapshot, recent []Trade) (bid, ask float64) {
	bid = s.sideStrength(recent, isBidFill, snap.BestBid)
	ask = s.sideStrength(recent, isAskFill, snap.BestAsk)
	return
}

func (s *Liquidity) Evaluate(snap book.Snapshot, recent []Trade) Kind {
	bidStrength, askStrength := s.strengths(snap, recent)
	bidIceberg := bidStrength > 1
	askIceberg := askStrength > 1
	switch {
	case bidIceberg && !askIceberg:
		return Buy
	case askIceberg && !bidIceberg:
		return Sell
	default:
		return Neutral
	}
}

func (s *Liquidity) Confidence(snap book.Snapshot, recent []Trade, signal Kind) float64 {
	if signal == Neutral {
		return 0
	}
	bidStrength, askStrength := s.strengths(snap, recent)
	var side, opp float64
	if signal == Buy {
		side, opp = bidStrength, askStrength
	} else {
		side, opp = askStrength, bidStrength
	}
	return clamp01(side-1) * (1 - clamp01(opp-1))
}

func (s *Liquidity) OnTrade(Trade) {}
func (s *Liquidity) Reset()        {}
