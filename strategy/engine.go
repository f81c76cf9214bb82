package strategy

import (
	"quantumflow/book"
)

// Engine holds an ordered list of strategies by insertion and evaluates
// them in that order against an immutable snapshot and trade history,
// caching the latest signal per strategy name (spec.md §4.J). Signals
// produced by one strategy are never inputs to another within a tick.
type Engine struct {
	strategies []Strategy
	latest     map[string]Signal
	lastStamp  uint64
}

// NewEngine builds an empty registry.
func NewEngine() *Engine {
	return &Engine{latest: make(map[string]Signal)}
}

// Register appends a strategy, preserving insertion order.
func (e *Engine) Register(s Strategy) {
	e.strategies = append(e.strategies, s)
}

// Evaluate runs every registered strategy against snap/recent in
// registration order, stamping each signal with a monotonically
// non-decreasing timestamp, and returns the full batch.
func (e *Engine) Evaluate(snap book.Snapshot, recent []Trade, nowNs uint64) []Signal {
	batch := make([]Signal, 0, len(e.strategies))
	for _, s := range e.strategies {
		kind := s.Evaluate(snap, recent)
		conf := s.Confidence(snap, recent, kind)
		ts := nowNs
		if ts <= e.lastStamp {
			ts = e.lastStamp + 1
		}
		e.lastStamp = ts

		sig := Signal{
			StrategyName: s.Name(),
			Symbol:       snap.Symbol,
			Kind:         kind,
			Confidence:   conf,
			TimestampNs:  ts,
		}
		e.latest[s.Name()] = sig
		batch = append(batch, sig)
	}
	return batch
}

// OnTrade fans a fill out to every registered strategy, in insertion
// order.
func (e *Engine) OnTrade(trade Trade) {
	for _, s := range e.strategies {
		s.OnTrade(trade)
	}
}

// Latest returns the most recent signal batch, keyed by strategy name.
func (e *Engine) Latest() map[string]Signal {
	out := make(map[string]Signal, len(e.latest))
	for k, v := range e.latest {
		out[k] = v
	}
	return out
}

// Reset clears every registered strategy's internal state.
func (e *Engine) Reset() {
	for _, s := range e.strategies {
		s.Reset()
	}
}

// Strategy returns the registered strategy with the given name, for
// collaborators (e.g. the control API) that need to reach a concrete
// strategy's extra methods such as Update or Quotes.
func (e *Engine) Strategy(name string) (Strategy, bool) {
	for _, s := range e.strategies {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}
