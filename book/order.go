package book

import "quantumflow/ingress"

// Status is an order's lifecycle state.
type Status uint8

const (
	Active Status = iota
	Fulfilled
	Cancelled
)

// Order is a resting or just-matched limit order. Price and Remaining are
// in internal scaled-integer units; 0 <= Remaining <= Original always
// holds, and Remaining == 0 implies Status == Fulfilled.
type Order struct {
	ID        uint64
	AgentID   uint64
	Side      ingress.Side
	Price     uint32
	Original  int64
	Remaining int64
	Status    Status
}

// Trade records one match produced by PlaceOrder, in the order matches
// occurred (best level first, time priority within a level).
type Trade struct {
	TakerOrderID uint64
	MakerOrderID uint64
	Price        uint32
	Volume       int64
}
