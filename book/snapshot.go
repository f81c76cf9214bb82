package book

import "time"

// LevelView is one priced level as exposed to strategies and telemetry:
// the external price plus the level's aggregate volume and order count.
type LevelView struct {
	Price      float64
	Quantity   int64
	OrderCount int
}

// Snapshot is an immutable value copy of a book's public state at an
// instant. Once returned, further book mutations do not observe it
// (spec.md §4.G).
type Snapshot struct {
	Symbol      string
	Bids        []LevelView // descending
	Asks        []LevelView // ascending
	BestBid     float64
	BestAsk     float64
	MidPrice    float64
	CapturedAt  time.Time
}

// ExternalPrice converts an internal scaled price with the given
// conversion function; kept as a parameter so the book package stays
// independent of priceconv.
type ExternalPrice func(internal uint32) float64

// Snapshot walks both sides in native key order (bids desc, asks asc),
// capped at depth price levels per side, and re-derives best bid/ask/mid
// from the walked sides so the result is internally consistent even if a
// concurrent mutation were to race with a deeper level (it cannot, since
// books are thread-exclusive, but re-derivation keeps the snapshot
// self-contained regardless of cap). depth <= 0 means unbounded.
func (b *Book) Snapshot(depth int, toExternal ExternalPrice) Snapshot {
	bids := b.levelViews(b.bidPrices, b.bidLevels, depth, toExternal)
	asks := b.levelViews(b.askPrices, b.askLevels, depth, toExternal)

	snap := Snapshot{
		Symbol:     b.Symbol,
		Bids:       bids,
		Asks:       asks,
		CapturedAt: time.Now(),
	}
	if len(bids) > 0 {
		snap.BestBid = bids[0].Price
	}
	if len(asks) > 0 {
		snap.BestAsk = asks[0].Price
	}
	if len(bids) > 0 && len(asks) > 0 {
		snap.MidPrice = (snap.BestBid + snap.BestAsk) / 2
	}
	return snap
}

func (b *Book) levelViews(prices []uint32, levels map[uint32]*Level, depth int, toExternal ExternalPrice) []LevelView {
	n := len(prices)
	if depth > 0 && depth < n {
		n = depth
	}
	if n == 0 {
		return nil
	}
	views := make([]LevelView, n)
	for i := 0; i < n; i++ {
		lvl := levels[prices[i]]
		views[i] = LevelView{
			Price:      toExternal(prices[i]),
			Quantity:   lvl.Volume,
			OrderCount: lvl.Count,
		}
	}
	return views
}
