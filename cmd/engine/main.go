// Command engine runs the quantumflow matching core: it ingests market
// data from an in-process ring and a UDS bridge socket, matches against
// per-symbol limit order books, fans out to the strategy engine, and
// broadcasts book/trade/signal/latency telemetry over a websocket hub
// (spec.md §6 CLI surface).
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"quantumflow/core"
	"quantumflow/ingress"
	"quantumflow/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := core.LoadConfig(os.Getenv("QUANTUMFLOW_CONFIG"), os.Args[1:])
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck
	log := logger.Sugar()

	ring := ingress.NewRing(ingress.DefaultRingCapacity)

	var socket *ingress.Socket
	if cfg.BridgeSocket != "" {
		socket, err = ingress.NewSocket(cfg.BridgeSocket, log)
		if err != nil {
			return fmt.Errorf("opening bridge socket: %w", err)
		}
	}

	var sink telemetry.Sink = telemetry.NopSink{}
	var hub *telemetry.Hub
	var httpServer *http.Server
	if !cfg.Headless {
		hub = telemetry.NewHub(log)
		sink = hub
	}

	loop := core.NewLoop(cfg, log, ring, socket, sink, core.DefaultStrategyFactory)

	if !cfg.Headless {
		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		mux.Handle("/control/", core.NewControlAPI(loop, log).Routes())
		httpServer = &http.Server{Addr: fmt.Sprintf(":%d", cfg.WSPort), Handler: mux}

		go func() {
			log.Infow("telemetry server listening", "port", cfg.WSPort)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Errorw("telemetry server stopped", "error", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutdown signal received")
		loop.Stop()
		if hub != nil {
			hub.Close()
		}
		if httpServer != nil {
			_ = httpServer.Close()
		}
	}()

	log.Infow("quantumflow starting", "symbols", cfg.Symbols, "bridge_socket", cfg.BridgeSocket, "headless", cfg.Headless)
	loop.Run()
	log.Info("quantumflow shut down cleanly")
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		cfg.Level.SetLevel(zap.InfoLevel)
	}
	return cfg.Build()
}
