package telemetry

import (
	"encoding/json"

	"quantumflow/book"
	"quantumflow/strategy"
)

// envelope is the shared shape of every telemetry message (spec.md §6).
type envelope struct {
	Type        string      `json:"type"`
	TimestampNs uint64      `json:"timestamp_ns"`
	Data        interface{} `json:"data"`
}

type levelWire struct {
	Price      float64 `json:"price"`
	Quantity   int64   `json:"quantity"`
	OrderCount int     `json:"order_count"`
}

type bookData struct {
	Symbol   string      `json:"symbol"`
	BestBid  float64     `json:"best_bid"`
	BestAsk  float64     `json:"best_ask"`
	MidPrice float64     `json:"mid_price"`
	Bids     []levelWire `json:"bids"`
	Asks     []levelWire `json:"asks"`
}

type tradeWire struct {
	Symbol      string  `json:"symbol"`
	Price       float64 `json:"price"`
	Quantity    int64   `json:"quantity"`
	Side        string  `json:"side"`
	TimestampNs uint64  `json:"timestamp_ns"`
}

type tradesData struct {
	Symbol string      `json:"symbol"`
	Trades []tradeWire `json:"trades"`
}

type signalWire struct {
	StrategyName string  `json:"strategy_name"`
	Symbol       string  `json:"symbol"`
	Signal       string  `json:"signal"`
	Confidence   float64 `json:"confidence"`
	TimestampNs  uint64  `json:"timestamp_ns"`
}

type signalsData struct {
	Signals []signalWire `json:"signals"`
}

type latencyData struct {
	PythonToCppUs float64 `json:"python_to_cpp_us"`
	OrderMatchUs  float64 `json:"order_match_us"`
	StrategyEvalUs float64 `json:"strategy_eval_us"`
	WsBroadcastUs float64 `json:"ws_broadcast_us"`
	TotalUs       float64 `json:"total_us"`
}

// maxTradeHistory bounds the trades frame to the last 50 fills per
// spec.md §6 ("last ≤50, chronological").
const maxTradeHistory = 50

// EncodeBook serialises a book snapshot to its wire frame.
func EncodeBook(snap book.Snapshot, nowNs uint64) ([]byte, error) {
	bids := make([]levelWire, len(snap.Bids))
	for i, lv := range snap.Bids {
		bids[i] = levelWire{Price: lv.Price, Quantity: lv.Quantity, OrderCount: lv.OrderCount}
	}
	asks := make([]levelWire, len(snap.Asks))
	for i, lv := range snap.Asks {
		asks[i] = levelWire{Price: lv.Price, Quantity: lv.Quantity, OrderCount: lv.OrderCount}
	}

	return json.Marshal(envelope{
		Type:        "book",
		TimestampNs: nowNs,
		Data: bookData{
			Symbol:   snap.Symbol,
			BestBid:  snap.BestBid,
			BestAsk:  snap.BestAsk,
			MidPrice: snap.MidPrice,
			Bids:     bids,
			Asks:     asks,
		},
	})
}

// EncodeTrades serialises the most recent trades for a symbol, truncated
// to maxTradeHistory and kept in chronological order.
func EncodeTrades(symbol string, trades []strategy.Trade, nowNs uint64) ([]byte, error) {
	if len(trades) > maxTradeHistory {
		trades = trades[len(trades)-maxTradeHistory:]
	}

	wire := make([]tradeWire, len(trades))
	for i, t := range trades {
		wire[i] = tradeWire{
			Symbol:      t.Symbol,
			Price:       t.Price,
			Quantity:    t.Quantity,
			Side:        t.Side.String(),
			TimestampNs: t.TimestampNs,
		}
	}

	return json.Marshal(envelope{
		Type:        "trades",
		TimestampNs: nowNs,
		Data:        tradesData{Symbol: symbol, Trades: wire},
	})
}

// EncodeStrategies serialises a batch of strategy signals.
func EncodeStrategies(signals []strategy.Signal, nowNs uint64) ([]byte, error) {
	wire := make([]signalWire, len(signals))
	for i, s := range signals {
		wire[i] = signalWire{
			StrategyName: s.StrategyName,
			Symbol:       s.Symbol,
			Signal:       s.Kind.String(),
			Confidence:   s.Confidence,
			TimestampNs:  s.TimestampNs,
		}
	}

	return json.Marshal(envelope{
		Type:        "strategies",
		TimestampNs: nowNs,
		Data:        signalsData{Signals: wire},
	})
}

// EncodeLatency serialises a per-tick latency snapshot. Field names
// follow the wire contract's historical naming (python_to_cpp_us for the
// ingest stage) rather than the Go-side Snapshot field names.
func EncodeLatency(snap Snapshot, nowNs uint64) ([]byte, error) {
	return json.Marshal(envelope{
		Type:        "latency",
		TimestampNs: nowNs,
		Data: latencyData{
			PythonToCppUs:  snap.IngestUs,
			OrderMatchUs:   snap.MatchUs,
			StrategyEvalUs: snap.StrategyUs,
			WsBroadcastUs:  snap.BroadcastUs,
			TotalUs:        snap.TotalUs,
		},
	})
}
