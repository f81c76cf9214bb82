package strategy

import "quantumflow/book"

// Imbalance is the order-book-imbalance strategy: it compares summed
// volume across the top N levels on each side against a threshold.
type Imbalance struct {
	TopN      int
	Threshold float64
}

// NewImbalance builds an Imbalance strategy with the spec's defaults
// (top_N=5, θ=0.3) when given non-positive values.
func NewImbalance(topN int, threshold float64) *Imbalance {
	if topN <= 0 {
		topN = 5
	}
	if threshold <= 0 {
		threshold = 0.3
	}
	return &Imbalance{TopN: topN, Threshold: threshold}
}

func (s *Imbalance) Name() string { return "order_book_imbalance" }

func (s *Imbalance) imbalance(snap book.Snapshot) float64 {
	bidVol := sumQuantity(snap.Bids, s.TopN)
	askVol := sumQuantity(snap.Asks, s.TopN)
	total := bidVol + askVol
	if total == 0 {
		return 0
	}
	return (bidVol - askVol) / total
}

func sumQuantity(levels []book.LevelView, n int) float64 {
	if n <= 0 || n > len(levels) {
		n = len(levels)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(levels[i].Quantity)
	}
	return sum
}

func (s *Imbalance) Evaluate(snap book.Snapshot, _ []Trade) Kind {
	imb := s.imbalance(snap)
	switch {
	case imb > s.Threshold:
		return Buy
	case imb < -s.Threshold:
		return Sell
	default:
		return Neutral
	}
}

func (s *Imbalance) Confidence(snap book.Snapshot, _ []Trade, signal Kind) float64 {
	if signal == Neutral {
		return 0
	}
	imb := s.imbalance(snap)
	return clamp01((absFloat(imb) - s.Threshold) / s.Threshold)
}

func (s *Imbalance) OnTrade(Trade) {}
func (s *Imbalance) Reset()        {}
