package telemetry

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// subscriberBuffer bounds how many frames a slow websocket consumer can
// fall behind by before the hub starts dropping for it (teacher's
// hub[T].Subscribe buffer pattern in server/hub.go).
const subscriberBuffer = 64

// writeTimeout bounds a single frame write so one stalled TCP peer cannot
// stall the broadcaster goroutine indefinitely.
const writeTimeout = 5 * time.Second

type subscriber struct {
	conn *websocket.Conn
	ch   chan []byte
}

// Hub is a websocket Sink: the matching thread calls Publish*, which
// enqueues onto each connected subscriber's buffered channel without
// blocking; a per-subscriber writer goroutine drains that channel onto
// the wire. Grounded on the teacher's generic hub[T] (server/hub.go),
// generalised from typed Go values to pre-serialised JSON frames, and on
// bally65-singularity's telemetry hub for the upgrade-and-pump handler
// shape.
type Hub struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}

	upgrader websocket.Upgrader
	log      *zap.SugaredLogger
}

// NewHub builds an empty Hub. The upgrader accepts any origin: the
// engine is meant to run behind a trusted local bridge, not exposed
// directly to untrusted browsers.
func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		subs:     make(map[*subscriber]struct{}),
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		log:      log,
	}
}

// ServeHTTP upgrades the connection and registers it as a subscriber
// until the client disconnects or a write fails.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("telemetry websocket upgrade failed", "error", err)
		return
	}

	sub := &subscriber{conn: conn, ch: make(chan []byte, subscriberBuffer)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	h.pump(sub)
}

// pump drains one subscriber's channel onto its websocket connection
// until the channel closes or a write errors; then it unregisters and
// closes the connection. Runs on its own goroutine per subscriber, never
// on the matching thread.
func (h *Hub) pump(sub *subscriber) {
	defer func() {
		h.mu.Lock()
		delete(h.subs, sub)
		h.mu.Unlock()
		_ = sub.conn.Close()
	}()

	for frame := range sub.ch {
		_ = sub.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := sub.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
}

// broadcast hands frame to every connected subscriber, dropping for any
// whose buffer is full rather than blocking the caller.
func (h *Hub) broadcast(frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		select {
		case sub.ch <- frame:
		default:
		}
	}
}

func (h *Hub) PublishBook(frame []byte)       { h.broadcast(frame) }
func (h *Hub) PublishTrades(frame []byte)     { h.broadcast(frame) }
func (h *Hub) PublishStrategies(frame []byte) { h.broadcast(frame) }
func (h *Hub) PublishLatency(frame []byte)    { h.broadcast(frame) }

// Subscribers reports the current connected-consumer count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close unregisters and disconnects every subscriber, for clean shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		close(sub.ch)
		delete(h.subs, sub)
	}
}
