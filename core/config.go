package core

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// defaultSymbols is the compiled-in instrument list (spec.md §6 CLI).
var defaultSymbols = []string{"BTC-USDT-SWAP", "ETH-USDT-SWAP"}

// Config holds every tunable the core loop, ingress, and telemetry need.
// It is assembled in four layers, each overriding the last: compiled
// defaults, an optional YAML file, a `.env` overlay, then CLI flags
// (grounded on chycee-CryptoGo's YAML config plus sodesu2077-aeromatch's
// env-overlay config, per SPEC_FULL.md §2).
type Config struct {
	Symbols       []string `yaml:"symbols"`
	WSPort        int      `yaml:"ws_port"`
	BridgeSocket  string   `yaml:"bridge_socket"`
	Headless      bool     `yaml:"headless"`
	LogLevel      string   `yaml:"log_level"`
	DrainBudget   int      `yaml:"drain_budget"`
	BroadcastHz   float64  `yaml:"broadcast_hz"`
	PriceScale    float64  `yaml:"price_scale"`
	SnapshotDepth int      `yaml:"snapshot_depth"`
}

// defaultConfig returns the compiled-in baseline before any file, env, or
// flag overlay is applied.
func defaultConfig() Config {
	return Config{
		Symbols:       append([]string(nil), defaultSymbols...),
		WSPort:        9001,
		BridgeSocket:  "/tmp/quantumflow_bridge.sock",
		Headless:      false,
		LogLevel:      "info",
		DrainBudget:   256,
		BroadcastHz:   30,
		PriceScale:    100.0,
		SnapshotDepth: 20,
	}
}

// LoadConfig builds a Config by layering a YAML file (if yamlPath is
// non-empty and exists), then a `.env` overlay, then the given CLI
// arguments on top of compiled defaults. args should exclude the program
// name (i.e. os.Args[1:]).
func LoadConfig(yamlPath string, args []string) (Config, error) {
	cfg := defaultConfig()

	if yamlPath != "" {
		if err := applyYAML(&cfg, yamlPath); err != nil {
			return Config{}, err
		}
	}

	applyEnvOverlay(&cfg)

	if err := applyFlags(&cfg, args); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func applyYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("core: reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("core: parsing config file: %w", err)
	}
	return nil
}

// applyEnvOverlay loads a `.env` file (if present, silently ignored
// otherwise) and overlays any QUANTUMFLOW_* variables it or the real
// environment define.
func applyEnvOverlay(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("QUANTUMFLOW_SYMBOLS"); v != "" {
		cfg.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("QUANTUMFLOW_WS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.WSPort = n
		}
	}
	if v := os.Getenv("QUANTUMFLOW_BRIDGE_SOCKET"); v != "" {
		cfg.BridgeSocket = v
	}
	if v := os.Getenv("QUANTUMFLOW_HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Headless = b
		}
	}
	if v := os.Getenv("QUANTUMFLOW_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// applyFlags parses args against the CLI surface fixed in spec.md §6,
// overriding whatever the file/env layers set. Flags not passed keep
// their current (file/env/default) value.
func applyFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("quantumflow", flag.ContinueOnError)

	headless := fs.Bool("headless", cfg.Headless, "run without the telemetry websocket server")
	symbols := fs.String("symbols", strings.Join(cfg.Symbols, ","), "comma-separated instrument symbols")
	wsPort := fs.Int("ws-port", cfg.WSPort, "telemetry websocket listen port")
	bridgeSocket := fs.String("bridge-socket", cfg.BridgeSocket, "AF_UNIX datagram bridge socket path")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.Headless = *headless
	cfg.WSPort = *wsPort
	cfg.BridgeSocket = *bridgeSocket
	if *symbols != "" {
		cfg.Symbols = strings.Split(*symbols, ",")
	}
	return nil
}

// BroadcastInterval is the telemetry publish cadence derived from
// BroadcastHz (spec.md §4.K step 5, default ~33.3ms / 30Hz).
func (c Config) BroadcastInterval() time.Duration {
	if c.BroadcastHz <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / c.BroadcastHz)
}
