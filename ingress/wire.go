// Package ingress implements the cross-process ingress bridge: the
// in-process SPSC ring fed by a colocated producer, and the UDS datagram
// socket fed by external producers, merged into a single ordered stream by
// the core loop (ring first, then socket, within each tick's drain budget).
package ingress

import (
	"encoding/binary"
	"errors"
	"math"
)

// Side identifies which side of the book an event applies to.
type Side uint8

const (
	Buy Side = iota
	Sell
)

// String returns the lowercase wire/telemetry spelling of the side.
func (s Side) String() string {
	if s == Sell {
		return "sell"
	}
	return "buy"
}

// EventType distinguishes a resting-book update from a synthesized trade.
type EventType uint8

const (
	BookLevel EventType = iota
	Trade
)

// RecordSize is the fixed wire size of a MarketDataEvent, per spec.md §6.
const RecordSize = 56

const symbolFieldSize = 16

// ErrShortRead is returned by Decode when fewer than RecordSize bytes are
// available; such reads are malformed and must be dropped and counted.
var ErrShortRead = errors.New("ingress: short read")

// Event is the decoded form of the fixed-width market-data wire record.
// Native byte order, producer and consumer colocated on host.
type Event struct {
	Symbol      string
	Side        Side
	Type        EventType
	Price       float64
	Quantity    uint64
	TimestampNs uint64
	OrderID     uint64
}

// Encode writes e into a RecordSize-byte buffer in the wire layout. Used by
// loadgen to synthesize datagrams; the in-process ring stores Event values
// directly and does not encode them.
func Encode(e Event) [RecordSize]byte {
	var buf [RecordSize]byte
	n := copy(buf[0:symbolFieldSize], e.Symbol)
	for i := n; i < symbolFieldSize; i++ {
		buf[i] = 0
	}
	buf[16] = byte(e.Side)
	buf[17] = byte(e.Type)
	// bytes 18-23 reserved, left zero
	binary.NativeEndian.PutUint64(buf[24:32], math.Float64bits(e.Price))
	binary.NativeEndian.PutUint64(buf[32:40], e.Quantity)
	binary.NativeEndian.PutUint64(buf[40:48], e.TimestampNs)
	binary.NativeEndian.PutUint64(buf[48:56], e.OrderID)
	return buf
}

// Decode parses a wire record. Short reads return ErrShortRead; longer
// reads are truncated to RecordSize before parsing, per spec.md §6.
func Decode(raw []byte) (Event, error) {
	if len(raw) < RecordSize {
		return Event{}, ErrShortRead
	}
	raw = raw[:RecordSize]

	var e Event
	e.Symbol = trimSymbol(raw[0:symbolFieldSize])
	e.Side = Side(raw[16])
	e.Type = EventType(raw[17])
	e.Price = math.Float64frombits(binary.NativeEndian.Uint64(raw[24:32]))
	e.Quantity = binary.NativeEndian.Uint64(raw[32:40])
	e.TimestampNs = binary.NativeEndian.Uint64(raw[40:48])
	e.OrderID = binary.NativeEndian.Uint64(raw[48:56])
	return e, nil
}

func trimSymbol(b []byte) string {
	n := 0
	for n < len(b) && b[n] != 0 {
		n++
	}
	return string(b[:n])
}
