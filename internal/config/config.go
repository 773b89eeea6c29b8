// Package config loads hyprwatch's CLI configuration. Settings merge in
// priority order: built-in defaults, then the first config file found
// under the XDG config directory (JSONC or YAML), then environment
// variables. The listener core takes no configuration at all; everything
// here belongs to the command-line surface.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Config holds the CLI settings.
type Config struct {
	// Socket overrides the resolved event socket path.
	Socket string `json:"socket" yaml:"socket"`
	// LogLevel is the minimum log level (DEBUG|INFO|WARN|ERROR).
	LogLevel string `json:"log_level" yaml:"log_level"`
	// JSON switches `watch` output from text lines to JSON objects.
	JSON bool `json:"json" yaml:"json"`

	Reconnect Reconnect `json:"reconnect" yaml:"reconnect"`
	Serve     Serve     `json:"serve" yaml:"serve"`
}

// Reconnect tunes the `watch --reconnect` retry policy. The listener
// itself never retries; this drives the backoff wrapper in the CLI.
type Reconnect struct {
	InitialInterval Duration `json:"initial_interval" yaml:"initial_interval"`
	MaxInterval     Duration `json:"max_interval" yaml:"max_interval"`
	MaxElapsedTime  Duration `json:"max_elapsed_time" yaml:"max_elapsed_time"`
}

// Serve configures the SSE bridge.
type Serve struct {
	Addr       string   `json:"addr" yaml:"addr"`
	EnableCORS bool     `json:"enable_cors" yaml:"enable_cors"`
	Heartbeat  Duration `json:"heartbeat" yaml:"heartbeat"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel: "INFO",
		Reconnect: Reconnect{
			InitialInterval: Duration(time.Second),
			MaxInterval:     Duration(30 * time.Second),
			MaxElapsedTime:  0, // retry forever
		},
		Serve: Serve{
			Addr:       "127.0.0.1:8937",
			EnableCORS: true,
			Heartbeat:  Duration(30 * time.Second),
		},
	}
}

// candidates lists the config filenames probed in order.
var candidates = []string{"hyprwatch.jsonc", "hyprwatch.json", "hyprwatch.yaml", "hyprwatch.yml"}

// Load merges defaults, the first config file found, and environment
// overrides.
func Load() (*Config, error) {
	cfg := Default()

	dir := configDir()
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := unmarshal(path, data, cfg); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		break
	}

	applyEnv(cfg)
	return cfg, nil
}

// unmarshal decodes data into cfg according to the file extension.
// JSONC comments and trailing commas are stripped before parsing.
func unmarshal(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return json.Unmarshal(jsonc.ToJSON(data), cfg)
	}
}

// applyEnv applies environment variable overrides, the highest priority
// source.
func applyEnv(cfg *Config) {
	if v := os.Getenv("HYPRWATCH_SOCKET"); v != "" {
		cfg.Socket = v
	}
	if v := os.Getenv("HYPRWATCH_LOG"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("HYPRWATCH_ADDR"); v != "" {
		cfg.Serve.Addr = v
	}
}

// configDir returns the hyprwatch config directory under XDG_CONFIG_HOME.
func configDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, "hyprwatch")
}
