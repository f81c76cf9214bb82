// Package strategy implements the uniform strategy contract, the seven
// concrete strategies of spec.md §4.I, and the registry/fan-out engine of
// §4.J.
package strategy

import (
	"quantumflow/book"
	"quantumflow/ingress"
)

// Kind is a strategy's classification of current market state. String
// values are case-exact per spec.md §6 ("Signal enum names").
type Kind uint8

const (
	Neutral Kind = iota
	Buy
	Sell
	LongSpotShortPerp
	ShortSpotLongPerp
	LongPair
	ShortPair
)

// String returns the case-exact wire name for the signal kind.
func (k Kind) String() string {
	switch k {
	case Neutral:
		return "NEUTRAL"
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	case LongSpotShortPerp:
		return "LONG_SPOT_SHORT_PERP"
	case ShortSpotLongPerp:
		return "SHORT_SPOT_LONG_PERP"
	case LongPair:
		return "LONG_PAIR"
	case ShortPair:
		return "SHORT_PAIR"
	default:
		return "NEUTRAL"
	}
}

// Trade is a fill as seen by strategies and telemetry: it carries the side
// and symbol the raw book.Trade does not, assembled by the core loop from
// the market-data event that produced it (spec.md §3 "Trade history").
type Trade struct {
	Symbol      string
	Price       float64
	Quantity    int64
	Side        ingress.Side
	TimestampNs uint64
}

// Signal is one strategy's output for one tick.
type Signal struct {
	StrategyName string
	Symbol       string
	Kind         Kind
	Confidence   float64
	TimestampNs  uint64
}

// Strategy is the uniform contract every concrete strategy implements
// (spec.md §4.H). Evaluate is pure with respect to its inputs plus the
// strategy's own accumulated state; Confidence is computed from the same
// inputs plus the signal Evaluate just produced.
type Strategy interface {
	Name() string
	Evaluate(snap book.Snapshot, recent []Trade) Kind
	Confidence(snap book.Snapshot, recent []Trade, signal Kind) float64
	OnTrade(trade Trade)
	Reset()
}

// clamp01 restricts x to [0,1], the universal confidence range.
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
