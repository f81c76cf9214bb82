package core

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WSPort != 9001 {
		t.Fatalf("expected default ws port 9001, got %d", cfg.WSPort)
	}
	if len(cfg.Symbols) != 2 || cfg.Symbols[0] != "BTC-USDT-SWAP" {
		t.Fatalf("unexpected default symbols: %v", cfg.Symbols)
	}
}

func TestLoadConfigFlagsOverrideDefaults(t *testing.T) {
	cfg, err := LoadConfig("", []string{"--ws-port", "9100", "--symbols", "FOO,BAR", "--headless"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WSPort != 9100 {
		t.Fatalf("expected flag-overridden ws port 9100, got %d", cfg.WSPort)
	}
	if len(cfg.Symbols) != 2 || cfg.Symbols[1] != "BAR" {
		t.Fatalf("unexpected symbols after flag override: %v", cfg.Symbols)
	}
	if !cfg.Headless {
		t.Fatalf("expected headless=true")
	}
}

func TestBroadcastIntervalFromHz(t *testing.T) {
	cfg := defaultConfig()
	cfg.BroadcastHz = 30
	interval := cfg.BroadcastInterval()
	if interval <= 0 {
		t.Fatalf("expected positive interval, got %v", interval)
	}
	// ~33.3ms at 30Hz
	if interval < 33*1e6 || interval > 34*1e6 {
		t.Fatalf("expected ~33.3ms interval, got %v", interval)
	}
}

func TestBroadcastIntervalZeroDisablesBroadcast(t *testing.T) {
	cfg := defaultConfig()
	cfg.BroadcastHz = 0
	if cfg.BroadcastInterval() != 0 {
		t.Fatalf("expected zero interval when BroadcastHz is 0")
	}
}
