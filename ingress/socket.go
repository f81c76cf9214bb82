package ingress

import (
	"errors"
	"net"
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultBridgeSocketPath is the default AF_UNIX SOCK_DGRAM rendezvous path,
// overridable via the --bridge-socket CLI flag (spec.md §6).
const DefaultBridgeSocketPath = "/tmp/quantumflow_bridge.sock"

// Socket is a non-blocking UDS datagram receiver for out-of-process
// producers. It is read only by the matching thread.
type Socket struct {
	path string
	conn *net.UnixConn
	log  *zap.SugaredLogger

	recvCount     atomic.Uint64
	malformedCount atomic.Uint64

	lastErr string
}

// NewSocket unlinks any stale rendezvous file, binds a non-blocking UDS
// datagram socket at path, and returns the handle. Errors here are
// construction-time and propagate to the caller (unlike steady-state
// socket errors, which are absorbed per spec.md §7).
func NewSocket(path string, log *zap.SugaredLogger) (*Socket, error) {
	if path == "" {
		path = DefaultBridgeSocketPath
	}
	_ = os.Remove(path)

	addr, err := net.ResolveUnixAddr("unixgram", path)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUnixgram("unixgram", addr)
	if err != nil {
		return nil, err
	}
	if err := conn.SetReadDeadline(time.Time{}); err != nil {
		_ = conn.Close()
		return nil, err
	}

	s := &Socket{path: path, conn: conn, log: log}
	return s, nil
}

// Recv drains up to budget datagrams, invoking fn for each successfully
// decoded event. It returns the number of events consumed and stops early
// on would-block (non-error end of tick) or once budget is exhausted.
// Short reads are counted as malformed and dropped; other errors are
// logged once per distinct message and end the drain for this tick.
func (s *Socket) Recv(budget int, fn func(Event)) int {
	buf := make([]byte, RecordSize*2)
	consumed := 0
	for consumed < budget {
		if err := s.conn.SetReadDeadline(time.Now().Add(time.Microsecond)); err != nil {
			return consumed
		}
		n, _, err := s.conn.ReadFromUnix(buf)
		if err != nil {
			if isTimeoutOrWouldBlock(err) {
				return consumed
			}
			s.logOnce(err)
			return consumed
		}
		s.recvCount.Add(1)
		e, derr := Decode(buf[:n])
		if derr != nil {
			s.malformedCount.Add(1)
			continue
		}
		fn(e)
		consumed++
	}
	return consumed
}

func (s *Socket) logOnce(err error) {
	msg := err.Error()
	if msg == s.lastErr {
		return
	}
	s.lastErr = msg
	if s.log != nil {
		s.log.Warnw("ingress socket error", "path", s.path, "error", msg)
	}
}

func isTimeoutOrWouldBlock(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, os.ErrDeadlineExceeded)
}

// RecvCount and MalformedCount expose the socket's monotonic counters.
func (s *Socket) RecvCount() uint64      { return s.recvCount.Load() }
func (s *Socket) MalformedCount() uint64 { return s.malformedCount.Load() }

// Close unlinks the rendezvous path and closes the underlying connection,
// per spec.md §5 shutdown sequencing.
func (s *Socket) Close() error {
	err := s.conn.Close()
	_ = os.Remove(s.path)
	return err
}
