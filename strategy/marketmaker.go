package strategy

import (
	"quantumflow/book"
	"quantumflow/ingress"
)

// MarketMaker tracks running inventory from executed fills and signals
// when inventory has drifted far enough from flat to warrant working it
// back down, plus exposes a pair of quotes skewed by that inventory.
type MarketMaker struct {
	MaxInventory float64
	BaseSpread   float64
	inventory    float64
}

// NewMarketMaker builds a MarketMaker with the given inventory cap and
// base spread (fraction of mid, e.g. 0.001 for 10bps).
func NewMarketMaker(maxInventory, baseSpread float64) *MarketMaker {
	return &MarketMaker{MaxInventory: maxInventory, BaseSpread: baseSpread}
}

func (s *MarketMaker) Name() string { return "market_maker" }

func (s *MarketMaker) ratio() float64 {
	if s.MaxInventory == 0 {
		return 0
	}
	return s.inventory / s.MaxInventory
}

func (s *MarketMaker) Evaluate(_ book.Snapshot, _ []Trade) Kind {
	r := s.ratio()
	switch {
	case r > 0.5:
		return Sell
	case r < -0.5:
		return Buy
	default:
		return Neutral
	}
}

func (s *MarketMaker) Confidence(_ book.Snapshot, _ []Trade, signal Kind) float64 {
	if signal == Neutral {
		return 0
	}
	return clamp01((absFloat(s.ratio()) - 0.5) / 0.5)
}

// OnTrade updates running inventory: +quantity for buy fills, -quantity
// for sell fills.
func (s *MarketMaker) OnTrade(trade Trade) {
	if trade.Side == ingress.Buy {
		s.inventory += float64(trade.Quantity)
	} else {
		s.inventory -= float64(trade.Quantity)
	}
}

func (s *MarketMaker) Reset() { s.inventory = 0 }

// Quotes returns the bid/ask the market maker would post around mid,
// skewed by current inventory: quotes(mid) = (mid-half_spread-skew,
// mid+half_spread-skew).
func (s *MarketMaker) Quotes(mid float64) (bid, ask float64) {
	halfSpread := mid * s.BaseSpread / 2
	skew := s.ratio() * 0.001
	return mid - halfSpread - skew, mid + halfSpread - skew
}

// Inventory reports the strategy's current running inventory.
func (s *MarketMaker) Inventory() float64 { return s.inventory }
