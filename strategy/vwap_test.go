package strategy

import (
	"testing"

	"quantumflow/book"
)

func TestVWAPBuysWhenBehindSchedule(t *testing.T) {
	s := NewVWAP(1000, 5000, nil)
	s.AdvanceTime(3000)

	kind := s.Evaluate(book.Snapshot{}, nil)
	if kind != Buy {
		t.Fatalf("expected BUY when behind schedule, got %v", kind)
	}
	conf := s.Confidence(book.Snapshot{}, nil, kind)
	if conf <= 0 {
		t.Fatalf("expected positive confidence, got %v", conf)
	}
}

func TestVWAPNeutralWhenOnSchedule(t *testing.T) {
	s := NewVWAP(1000, 5000, nil)
	s.AdvanceTime(3000)
	s.OnTrade(Trade{Quantity: 1000})

	kind := s.Evaluate(book.Snapshot{}, nil)
	if kind != Neutral {
		t.Fatalf("expected NEUTRAL once fully executed, got %v", kind)
	}
}

func TestVWAPNeutralPastHorizon(t *testing.T) {
	s := NewVWAP(1000, 5000, nil)
	s.AdvanceTime(6000)

	kind := s.Evaluate(book.Snapshot{}, nil)
	if kind != Neutral {
		t.Fatalf("expected NEUTRAL past horizon, got %v", kind)
	}
}
