package telemetry

// Sink is the telemetry egress contract the matching thread calls into
// (spec.md §4.M / component M): four already-serialised text frames per
// tick, one per message type. Publish must not block the calling
// (matching) thread perceptibly; a sink with no connected consumers
// silently discards. Delivery is at-most-once.
type Sink interface {
	PublishBook(frame []byte)
	PublishTrades(frame []byte)
	PublishStrategies(frame []byte)
	PublishLatency(frame []byte)
}

// NopSink discards every frame. Useful for headless runs and tests that
// don't need a live websocket hub.
type NopSink struct{}

func (NopSink) PublishBook(_ []byte)       {}
func (NopSink) PublishTrades(_ []byte)     {}
func (NopSink) PublishStrategies(_ []byte) {}
func (NopSink) PublishLatency(_ []byte)    {}
