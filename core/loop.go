package core

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"quantumflow/book"
	"quantumflow/ingress"
	"quantumflow/priceconv"
	"quantumflow/strategy"
	"quantumflow/telemetry"
)

// tradeHistoryHardCap/tradeHistoryKeep bound each symbol's retained trade
// history: exceeding the cap truncates to the most recent Keep entries
// (spec.md §4.K step 3).
const (
	tradeHistoryHardCap = 1000
	tradeHistoryKeep    = 500
	idleSleep           = 100 * time.Microsecond

	// controlBuffer bounds the control API's thread-safe hand-off queue;
	// a full buffer drops the update rather than blocking the HTTP
	// handler (same non-blocking-enqueue contract as the telemetry sink).
	controlBuffer = 64
)

// controlUpdate is a pending external input (funding rate, pairs leg
// prices) waiting to be applied on the matching thread. The control API
// constructs these from HTTP requests; only the matching thread ever
// touches the strategy engine itself.
type controlUpdate struct {
	symbol string
	apply  func(*strategy.Engine)
}

// StrategyFactory builds a fresh, independently-stateful set of strategy
// instances for one symbol. The core calls it once per symbol: at
// construction for every configured symbol, and lazily the first time any
// other symbol is observed.
type StrategyFactory func() []strategy.Strategy

// symbolState is everything the matching thread owns for one instrument:
// its book, strategy engine, and trade history (spec.md §5 "thread-exclusive
// to the matching thread").
type symbolState struct {
	book    *book.Book
	engine  *strategy.Engine
	history []strategy.Trade
}

// Loop is the single matching thread: it owns every book, strategy
// instance, and history, drains ingress, matches, evaluates strategies,
// and publishes telemetry (spec.md §4.K, §5).
type Loop struct {
	cfg     Config
	log     *zap.SugaredLogger
	ring    *ingress.Ring
	socket  *ingress.Socket
	sink    telemetry.Sink
	meter   *telemetry.Meter
	prices  *priceconv.Registry
	factory StrategyFactory

	symbols map[string]*symbolState
	nextID  atomic.Uint64
	control chan controlUpdate

	// activeSymbol is the last symbol observed in any drain, carried
	// forward tick-to-tick so steps 3-6 of the pipeline always have a
	// symbol to snapshot/evaluate/broadcast even on ticks that drain no
	// events (spec.md §4.K step 3: "the currently active symbol, or a
	// fixed default"; mirrored in original_source/main.cpp's primary-symbol
	// fallback). It's seeded from cfg.Symbols[0] at construction.
	activeSymbol string

	latestIngestUs float64
	lastBroadcast  time.Time
	lastTick       time.Time
	shutdown       atomic.Bool
}

// NewLoop wires a Loop from its already-constructed collaborators. sink
// may be telemetry.NopSink{} for headless operation. Every symbol in
// cfg.Symbols gets its book/engine/history state seeded immediately, so
// the loop has an active symbol to drive telemetry off of before the
// first market event ever arrives.
func NewLoop(cfg Config, log *zap.SugaredLogger, ring *ingress.Ring, socket *ingress.Socket, sink telemetry.Sink, factory StrategyFactory) *Loop {
	prices := priceconv.NewRegistry()
	prices.SetDefaultScale(cfg.PriceScale)

	l := &Loop{
		cfg:     cfg,
		log:     log,
		ring:    ring,
		socket:  socket,
		sink:    sink,
		meter:   telemetry.NewMeter(),
		prices:  prices,
		factory: factory,
		symbols: make(map[string]*symbolState),
		control: make(chan controlUpdate, controlBuffer),
	}

	for _, symbol := range cfg.Symbols {
		l.stateFor(symbol)
	}
	if len(cfg.Symbols) > 0 {
		l.activeSymbol = cfg.Symbols[0]
	}

	return l
}

// PushControl enqueues an external-input update for symbol's strategy
// engine, to be applied at the top of the matching thread's next tick.
// It never blocks; a full queue drops the update and reports false.
func (l *Loop) PushControl(symbol string, apply func(*strategy.Engine)) bool {
	select {
	case l.control <- controlUpdate{symbol: symbol, apply: apply}:
		return true
	default:
		return false
	}
}

// Stop requests a clean shutdown; the loop exits at the top of its next
// tick (spec.md §5 "Cancellation / timeouts").
func (l *Loop) Stop() {
	l.shutdown.Store(true)
}

// Run drives ticks until Stop is called. In headless mode it sleeps
// idleSleep whenever a tick drains no events, to avoid a tight spin.
func (l *Loop) Run() {
	for !l.shutdown.Load() {
		drained := l.Tick()
		if l.cfg.Headless && drained == 0 {
			time.Sleep(idleSleep)
		}
	}
	if l.socket != nil {
		if err := l.socket.Close(); err != nil {
			l.log.Warnw("error closing ingress socket on shutdown", "error", err)
		}
	}
}

// Tick runs exactly one pass of the per-tick pipeline (spec.md §4.K) and
// returns the number of ingress events drained. Steps 3-6 (snapshot,
// evaluate, maybe-broadcast, latency) always run against some active
// symbol, even on a tick that drains nothing: the active symbol carries
// forward from the last tick that observed one, falling back to the
// configured default when none ever has.
func (l *Loop) Tick() int {
	l.meter.StartTick()
	l.drainControl()

	now := time.Now()
	var deltaMs int64
	if !l.lastTick.IsZero() {
		deltaMs = now.Sub(l.lastTick).Milliseconds()
	}
	l.lastTick = now

	drained, observedSymbol := l.drainIngress()
	l.meter.MarkIngested(time.Duration(l.latestIngestUs * float64(time.Microsecond)))
	l.meter.MarkMatched()

	if observedSymbol != "" {
		l.activeSymbol = observedSymbol
	}

	if l.activeSymbol == "" {
		l.meter.MarkStrategiesEvaluated()
		return drained
	}

	st := l.stateFor(l.activeSymbol)
	advanceVWAPClock(st.engine, deltaMs)
	snap := st.book.Snapshot(l.cfg.SnapshotDepth, l.prices.Get(l.activeSymbol).ToExternal)
	signals := st.engine.Evaluate(snap, st.history, uint64(time.Now().UnixNano()))
	l.meter.MarkStrategiesEvaluated()

	if l.shouldBroadcast() {
		l.broadcast(snap, st.history, signals)
		l.lastBroadcast = time.Now()
	}

	return drained
}

// drainIngress pops from the ring until empty or budget exhausted, then
// reads the socket until would-block or budget exhausted, applying every
// event to its symbol's book. It returns the count drained and the last
// symbol observed (the "active symbol" for this tick's snapshot).
func (l *Loop) drainIngress() (int, string) {
	budget := l.cfg.DrainBudget
	if budget <= 0 {
		budget = 256
	}
	drained := 0
	activeSymbol := ""

	for drained < budget {
		e, ok := l.ring.Pop()
		if !ok {
			break
		}
		l.applyEvent(e)
		activeSymbol = e.Symbol
		drained++
	}

	if l.socket != nil && drained < budget {
		n := l.socket.Recv(budget-drained, func(e ingress.Event) {
			l.applyEvent(e)
			activeSymbol = e.Symbol
		})
		drained += n
	}

	return drained, activeSymbol
}

// drainControl applies every pending control-API update, on the matching
// thread, before this tick's ingress drain.
func (l *Loop) drainControl() {
	for {
		select {
		case u := <-l.control:
			u.apply(l.stateFor(u.symbol).engine)
		default:
			return
		}
	}
}

func (l *Loop) applyEvent(e ingress.Event) {
	now := time.Now()
	if e.TimestampNs <= uint64(now.UnixNano()) {
		l.latestIngestUs = float64(uint64(now.UnixNano())-e.TimestampNs) / 1000.0
	}

	st := l.stateFor(e.Symbol)
	quantity := int64(e.Quantity)

	switch e.Type {
	case ingress.BookLevel:
		priceInternal := l.prices.Get(e.Symbol).ToInternal(e.Price)
		id := e.OrderID
		if id == 0 {
			id = l.nextID.Add(1)
		}
		trades := st.book.PlaceOrder(id, 0, e.Side, priceInternal, quantity)
		for _, tr := range trades {
			l.appendTrade(st, strategy.Trade{
				Symbol:      e.Symbol,
				Price:       l.prices.Get(e.Symbol).ToExternal(tr.Price),
				Quantity:    tr.Volume,
				Side:        e.Side,
				TimestampNs: e.TimestampNs,
			})
		}
	case ingress.Trade:
		l.appendTrade(st, strategy.Trade{
			Symbol:      e.Symbol,
			Price:       e.Price,
			Quantity:    quantity,
			Side:        e.Side,
			TimestampNs: e.TimestampNs,
		})
	}
}

func (l *Loop) appendTrade(st *symbolState, t strategy.Trade) {
	st.history = append(st.history, t)
	if len(st.history) > tradeHistoryHardCap {
		st.history = append([]strategy.Trade(nil), st.history[len(st.history)-tradeHistoryKeep:]...)
	}
	st.engine.OnTrade(t)
}

func (l *Loop) stateFor(symbol string) *symbolState {
	st, ok := l.symbols[symbol]
	if ok {
		return st
	}
	engine := strategy.NewEngine()
	for _, s := range l.factory() {
		engine.Register(s)
	}
	st = &symbolState{
		book:   book.New(symbol, book.DefaultPoolCapacity),
		engine: engine,
	}
	l.symbols[symbol] = st
	return st
}

// advanceVWAPClock moves a registered VWAP executor's slice clock forward
// by the wall-clock time elapsed since the previous tick (spec.md §4.I
// "advance_time(delta) advances the slice clock"). It's a no-op for
// symbols with no vwap_executor registered, and on the very first tick
// (deltaMs is 0 until a previous tick has run).
func advanceVWAPClock(engine *strategy.Engine, deltaMs int64) {
	if deltaMs <= 0 {
		return
	}
	s, ok := engine.Strategy("vwap_executor")
	if !ok {
		return
	}
	if vwap, ok := s.(*strategy.VWAP); ok {
		vwap.AdvanceTime(deltaMs)
	}
}

func (l *Loop) shouldBroadcast() bool {
	interval := l.cfg.BroadcastInterval()
	if interval <= 0 {
		return false
	}
	return time.Since(l.lastBroadcast) >= interval
}

// broadcast hands the four telemetry frames to the sink. The latency
// frame necessarily describes broadcast_us through the moment it itself
// is struck (MarkBroadcast), not through its own encode+publish, since
// that duration can't be known before it's measured (spec.md §4.K steps
// 5-6).
func (l *Loop) broadcast(snap book.Snapshot, history []strategy.Trade, signals []strategy.Signal) {
	nowNs := uint64(time.Now().UnixNano())

	if frame, err := telemetry.EncodeBook(snap, nowNs); err == nil {
		l.sink.PublishBook(frame)
	}
	if frame, err := telemetry.EncodeTrades(snap.Symbol, history, nowNs); err == nil {
		l.sink.PublishTrades(frame)
	}
	if frame, err := telemetry.EncodeStrategies(signals, nowNs); err == nil {
		l.sink.PublishStrategies(frame)
	}

	l.meter.MarkBroadcast()
	if frame, err := telemetry.EncodeLatency(l.meter.Snapshot(), nowNs); err == nil {
		l.sink.PublishLatency(frame)
	}
}
