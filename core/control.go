package core

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"quantumflow/strategy"
)

// ControlAPI serves the funding-rate and pairs-leg external inputs that
// spec.md §9 leaves unspecified for how strategies receive them: an
// HTTP+JSON surface grounded on the teacher's server/server.go handler
// shape, posting updates onto the matching thread's control channel
// rather than touching strategy state directly (spec.md §5 thread-
// exclusivity).
type ControlAPI struct {
	loop *Loop
	log  *zap.SugaredLogger
}

// NewControlAPI builds a ControlAPI bound to loop.
func NewControlAPI(loop *Loop, log *zap.SugaredLogger) *ControlAPI {
	return &ControlAPI{loop: loop, log: log}
}

// Routes returns the control API's handler, mountable alongside the
// telemetry websocket hub on the same HTTP server.
func (c *ControlAPI) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/control/funding", c.handleFunding)
	mux.HandleFunc("/control/pairs", c.handlePairs)
	return mux
}

type fundingRequest struct {
	Symbol string  `json:"symbol"`
	Rate   float64 `json:"rate"`
	Spot   float64 `json:"spot"`
	Perp   float64 `json:"perp"`
}

func (c *ControlAPI) handleFunding(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req fundingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Symbol == "" {
		writeJSONError(w, http.StatusBadRequest, "symbol, rate, spot, and perp are required")
		return
	}

	accepted := c.loop.PushControl(req.Symbol, func(e *strategy.Engine) {
		s, ok := e.Strategy("funding_arbitrage")
		if !ok {
			return
		}
		if fa, ok := s.(*strategy.FundingArb); ok {
			fa.Update(req.Rate, req.Spot, req.Perp)
		}
	})
	respondAccepted(w, accepted, c.log)
}

type pairsRequest struct {
	Symbol string  `json:"symbol"`
	P1     float64 `json:"p1"`
	P2     float64 `json:"p2"`
}

func (c *ControlAPI) handlePairs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req pairsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Symbol == "" {
		writeJSONError(w, http.StatusBadRequest, "symbol, p1, and p2 are required")
		return
	}

	accepted := c.loop.PushControl(req.Symbol, func(e *strategy.Engine) {
		s, ok := e.Strategy("pairs_trading")
		if !ok {
			return
		}
		if p, ok := s.(*strategy.Pairs); ok {
			p.Update(req.P1, req.P2)
		}
	})
	respondAccepted(w, accepted, c.log)
}

func respondAccepted(w http.ResponseWriter, accepted bool, log *zap.SugaredLogger) {
	if !accepted {
		log.Warnw("control update dropped: queue full")
		writeJSONError(w, http.StatusServiceUnavailable, "control queue full, retry")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "accepted"})
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
