package strategy

import (
	"testing"

	"quantumflow/book"
	"quantumflow/ingress"
)

func TestLiquidityDetectsBidIceberg(t *testing.T) {
	s := NewLiquidity(3, 300, 0.5)
	snap := book.Snapshot{BestBid: 100, BestAsk: 101}
	recent := []Trade{
		{Side: ingress.Buy, Price: 100, Quantity: 150},
		{Side: ingress.Buy, Price: 100, Quantity: 150},
		{Side: ingress.Buy, Price: 100, Quantity: 150},
		{Side: ingress.Buy, Price: 100, Quantity: 150},
	}

	kind := s.Evaluate(snap, recent)
	if kind != Buy {
		t.Fatalf("expected BUY on bid-side iceberg, got %v", kind)
	}
	conf := s.Confidence(snap, recent, kind)
	if conf <= 0 {
		t.Fatalf("expected positive confidence, got %v", conf)
	}
}

func TestLiquidityNeutralBelowThreshold(t *testing.T) {
	s := NewLiquidity(3, 300, 0.5)
	snap := book.Snapshot{BestBid: 100, BestAsk: 101}
	recent := []Trade{
		{Side: ingress.Buy, Price: 100, Quantity: 50},
	}

	kind := s.Evaluate(snap, recent)
	if kind != Neutral {
		t.Fatalf("expected NEUTRAL below threshold, got %v", kind)
	}
}

func TestLiquidityIgnoresFillsAwayFromBest(t *testing.T) {
	s := NewLiquidity(3, 300, 0.5)
	snap := book.Snapshot{BestBid: 100, BestAsk: 101}
	recent := []Trade{
		{Side: ingress.Buy, Price: 90, Quantity: 500},
		{Side: ingress.Buy, Price: 90, Quantity: 500},
		{Side: ingress.Buy, Price: 90, Quantity: 500},
	}

	kind := s.Evaluate(snap, recent)
	if kind != Neutral {
		t.Fatalf("expected NEUTRAL for fills outside price tolerance, got %v", kind)
	}
}
