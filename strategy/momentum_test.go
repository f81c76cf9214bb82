package strategy

import (
	"testing"

	"quantumflow/book"
)

func TestMomentumUptrend(t *testing.T) {
	s := NewMomentum(5, 0.02)
	mids := []float64{100, 101, 102, 103, 104}
	var kind Kind
	for _, m := range mids {
		kind = s.Evaluate(book.Snapshot{MidPrice: m}, nil)
	}
	if kind != Buy {
		t.Fatalf("expected BUY after uptrend, got %v", kind)
	}
	conf := s.Confidence(book.Snapshot{}, nil, kind)
	if absFloat(conf-1.0) > 1e-9 {
		t.Fatalf("expected confidence 1.0, got %v", conf)
	}
}

func TestMomentumInsufficientWindowIsNeutral(t *testing.T) {
	s := NewMomentum(5, 0.02)
	kind := s.Evaluate(book.Snapshot{MidPrice: 100}, nil)
	if kind != Neutral {
		t.Fatalf("expected NEUTRAL before window fills, got %v", kind)
	}
}
