package book

import (
	"testing"

	"quantumflow/ingress"
)

func identity(p uint32) float64 { return float64(p) }

// Scenario 1: non-crossing rest.
func TestPlaceOrderNonCrossingRest(t *testing.T) {
	b := New("SIM", 16)
	trades := b.PlaceOrder(1, 0, ingress.Buy, 100, 30)
	if len(trades) != 0 {
		t.Fatalf("expected no trades, got %v", trades)
	}
	if b.BidLevels() != 1 {
		t.Fatalf("expected 1 bid level, got %d", b.BidLevels())
	}
	if b.BestBid() != 100 {
		t.Fatalf("expected best bid 100, got %d", b.BestBid())
	}
}

// Scenario 2: immediate full match.
func TestPlaceOrderImmediateFullMatch(t *testing.T) {
	b := New("SIM", 16)
	b.PlaceOrder(1, 0, ingress.Sell, 100, 30)
	trades := b.PlaceOrder(2, 0, ingress.Buy, 100, 50)

	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	tr := trades[0]
	if tr.MakerOrderID != 1 || tr.TakerOrderID != 2 || tr.Price != 100 || tr.Volume != 30 {
		t.Fatalf("unexpected trade: %+v", tr)
	}
	if b.AskLevels() != 0 {
		t.Fatalf("expected ask side empty, got %d levels", b.AskLevels())
	}
	if b.BestBid() != 100 {
		t.Fatalf("expected resting buy at 100, got %d", b.BestBid())
	}
	st, ok := b.Status(2)
	if !ok || st != Active {
		t.Fatalf("expected order 2 active, got %v ok=%v", st, ok)
	}
}

// Scenario 3: time priority within a level.
func TestPlaceOrderTimePriorityWithinLevel(t *testing.T) {
	b := New("SIM", 16)
	b.PlaceOrder(1, 0, ingress.Buy, 100, 10)
	b.PlaceOrder(2, 0, ingress.Buy, 100, 20)
	b.PlaceOrder(3, 0, ingress.Buy, 100, 30)
	trades := b.PlaceOrder(4, 0, ingress.Sell, 100, 60)

	if len(trades) != 3 {
		t.Fatalf("expected 3 trades, got %d", len(trades))
	}
	wantMakers := []uint64{1, 2, 3}
	wantVols := []int64{10, 20, 30}
	for i, tr := range trades {
		if tr.MakerOrderID != wantMakers[i] || tr.Volume != wantVols[i] {
			t.Fatalf("trade %d mismatch: %+v", i, tr)
		}
	}
	if b.BidLevels() != 0 {
		t.Fatalf("expected buy side empty, got %d levels", b.BidLevels())
	}
}

// Scenario 4: cancel removes resting order and updates best.
func TestCancelUpdatesBest(t *testing.T) {
	b := New("SIM", 16)
	b.PlaceOrder(1, 0, ingress.Buy, 100, 10)
	b.PlaceOrder(2, 0, ingress.Buy, 110, 10)
	if b.BestBid() != 110 {
		t.Fatalf("expected best bid 110, got %d", b.BestBid())
	}
	b.Cancel(2)
	if b.BestBid() != 100 {
		t.Fatalf("expected best bid 100 after cancel, got %d", b.BestBid())
	}
	st, ok := b.Status(2)
	if !ok || st != Cancelled {
		t.Fatalf("expected order 2 cancelled, got %v ok=%v", st, ok)
	}
}

func TestCancelUnknownIsNoOp(t *testing.T) {
	b := New("SIM", 16)
	b.PlaceOrder(1, 0, ingress.Buy, 100, 10)
	before := b.RestingOrders()
	b.Cancel(999)
	if b.RestingOrders() != before {
		t.Fatalf("expected no change cancelling unknown id")
	}
}

func TestRejectZeroPriceOrZeroVolume(t *testing.T) {
	b := New("SIM", 16)
	if trades := b.PlaceOrder(1, 0, ingress.Buy, 0, 10); trades != nil {
		t.Fatalf("expected nil trades for zero price")
	}
	if trades := b.PlaceOrder(2, 0, ingress.Buy, 100, 0); trades != nil {
		t.Fatalf("expected nil trades for zero volume")
	}
	if b.BidLevels() != 0 || b.RestingOrders() != 0 {
		t.Fatalf("expected book unchanged by rejected orders")
	}
}

func TestSelfMatchEqualPricesEmptiesBook(t *testing.T) {
	b := New("SIM", 16)
	trades := b.PlaceOrder(1, 0, ingress.Buy, 100, 10)
	if len(trades) != 0 {
		t.Fatalf("expected no trades placing initial resting buy")
	}
	trades = b.PlaceOrder(2, 0, ingress.Sell, 100, 10)
	if len(trades) != 1 || trades[0].Volume != 10 {
		t.Fatalf("expected single trade of volume 10, got %+v", trades)
	}
	if b.BidLevels() != 0 || b.AskLevels() != 0 {
		t.Fatalf("expected both sides empty, got bids=%d asks=%d", b.BidLevels(), b.AskLevels())
	}
	if b.RestingOrders() != 0 {
		t.Fatalf("expected no resting orders, got %d", b.RestingOrders())
	}
}

func TestPlaceThenCancelRestoresEmptyBook(t *testing.T) {
	b := New("SIM", 16)
	b.PlaceOrder(1, 0, ingress.Buy, 100, 10)
	b.Cancel(1)
	if b.BidLevels() != 0 || b.RestingOrders() != 0 {
		t.Fatalf("expected empty book after place-then-cancel")
	}
	if b.BestBid() != 0 || b.BestAsk() != 0 {
		t.Fatalf("expected zero best bid/ask on empty book")
	}
}

func TestBestBidBelowBestAskInvariant(t *testing.T) {
	b := New("SIM", 16)
	b.PlaceOrder(1, 0, ingress.Buy, 99, 10)
	b.PlaceOrder(2, 0, ingress.Sell, 101, 10)
	if b.BestBid() >= b.BestAsk() {
		t.Fatalf("expected best bid < best ask, got bid=%d ask=%d", b.BestBid(), b.BestAsk())
	}
	if b.Spread() != 2 {
		t.Fatalf("expected spread 2, got %d", b.Spread())
	}
	if b.Mid() != 100 {
		t.Fatalf("expected mid 100, got %d", b.Mid())
	}
}

func TestSpreadAndMidZeroWhenOneSideEmpty(t *testing.T) {
	b := New("SIM", 16)
	b.PlaceOrder(1, 0, ingress.Buy, 100, 10)
	if b.Spread() != 0 || b.Mid() != 0 {
		t.Fatalf("expected zero spread/mid with ask side empty")
	}
}

func TestMultiLevelCrossConsumesBestFirst(t *testing.T) {
	b := New("SIM", 16)
	b.PlaceOrder(1, 0, ingress.Sell, 100, 5)
	b.PlaceOrder(2, 0, ingress.Sell, 101, 5)
	b.PlaceOrder(3, 0, ingress.Sell, 102, 5)

	trades := b.PlaceOrder(4, 0, ingress.Buy, 102, 12)
	if len(trades) != 3 {
		t.Fatalf("expected 3 trades crossing all levels, got %d", len(trades))
	}
	if trades[0].Price != 100 || trades[1].Price != 101 || trades[2].Price != 102 {
		t.Fatalf("expected best-first price order, got %+v", trades)
	}
	if trades[2].Volume != 2 {
		t.Fatalf("expected final trade to take remaining 2, got %d", trades[2].Volume)
	}
	if b.AskLevels() != 1 {
		t.Fatalf("expected one ask level remaining at 102, got %d", b.AskLevels())
	}
}

func TestSnapshotIsImmutableCopy(t *testing.T) {
	b := New("SIM", 16)
	b.PlaceOrder(1, 0, ingress.Buy, 100, 10)
	b.PlaceOrder(2, 0, ingress.Sell, 105, 5)

	snap := b.Snapshot(0, identity)
	if snap.BestBid != 100 || snap.BestAsk != 105 || snap.MidPrice != 102.5 {
		t.Fatalf("unexpected snapshot derived values: %+v", snap)
	}

	b.PlaceOrder(3, 0, ingress.Buy, 104, 1)
	if snap.BestBid != 100 {
		t.Fatalf("expected prior snapshot to remain unaffected by later mutation")
	}
}

func TestSnapshotDepthCap(t *testing.T) {
	b := New("SIM", 16)
	for i := 0; i < 5; i++ {
		b.PlaceOrder(uint64(i+1), 0, ingress.Buy, uint32(100-i), 1)
	}
	snap := b.Snapshot(3, identity)
	if len(snap.Bids) != 3 {
		t.Fatalf("expected depth-capped bids len 3, got %d", len(snap.Bids))
	}
	if snap.Bids[0].Price != 100 {
		t.Fatalf("expected best bid first, got %+v", snap.Bids[0])
	}
}
