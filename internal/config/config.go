// Package config provides configuration types for the operations console.
//
// The console is a single-operator tool: it listens on localhost, talks to one
// marketplace backend and keeps one operator session on disk.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Session persistence backends.
const (
	SessionBackendFile   = "file"
	SessionBackendSQLite = "sqlite"
	SessionBackendMemory = "memory"
)

// ConsoleConfig is the top-level configuration.
type ConsoleConfig struct {
	// Server configures the console's HTTP listener.
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Backend configures the marketplace API the console drives.
	Backend BackendConfig `yaml:"backend" mapstructure:"backend"`

	// Session configures where the operator session is persisted.
	Session SessionConfig `yaml:"session" mapstructure:"session"`

	// Telemetry configures metrics and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`

	// DevMode enables verbose logging and tracing to stdout.
	DevMode bool `yaml:"dev_mode" mapstructure:"dev_mode"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// HTTPAddr is the address to listen on.
	// Default: "127.0.0.1:8090" (localhost only).
	HTTPAddr string `yaml:"http_addr" mapstructure:"http_addr" validate:"required,hostname_port"`

	// AllowRemote permits a non-loopback HTTPAddr. The console acts with the
	// operator's backend token, so exposing it is opt-in.
	AllowRemote bool `yaml:"allow_remote" mapstructure:"allow_remote"`

	// LogLevel is one of debug, info, warn, error. Default: "info".
	LogLevel string `yaml:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`

	// SecureCookies marks the console's cookies Secure. Enable when the
	// console is served over TLS by a reverse proxy.
	SecureCookies bool `yaml:"secure_cookies" mapstructure:"secure_cookies"`
}

// BackendConfig configures the marketplace backend client.
type BackendConfig struct {
	// BaseURL is scheme and host of the backend, e.g. "https://api.example.com".
	// Default: "http://127.0.0.1:8080".
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`

	// APIPrefix is prepended to every endpoint path. Default: "/api/v1".
	APIPrefix string `yaml:"api_prefix" mapstructure:"api_prefix" validate:"required,startswith=/"`

	// Timeout bounds every backend request (e.g. "15s"). Default: "15s".
	Timeout string `yaml:"timeout" mapstructure:"timeout" validate:"required,duration"`
}

// SessionConfig configures session persistence.
type SessionConfig struct {
	// Backend is file, sqlite or memory. Default: "file".
	Backend string `yaml:"backend" mapstructure:"backend" validate:"omitempty,oneof=file sqlite memory"`

	// Path is the state file or database path. Default:
	// ~/.opsconsole/session.json (file) or ~/.opsconsole/console.db (sqlite).
	Path string `yaml:"path" mapstructure:"path"`
}

// TelemetryConfig configures observability.
type TelemetryConfig struct {
	// Metrics exposes Prometheus metrics on /metrics. Default: true.
	Metrics bool `yaml:"metrics" mapstructure:"metrics"`

	// Tracing writes OpenTelemetry spans to stdout. Default: false.
	Tracing bool `yaml:"tracing" mapstructure:"tracing"`
}

// DefaultStateDir returns ~/.opsconsole, or ".opsconsole" if the home
// directory cannot be determined.
func DefaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".opsconsole"
	}
	return filepath.Join(home, ".opsconsole")
}

// SetDefaults applies default values to optional fields.
func (c *ConsoleConfig) SetDefaults() {
	// Bind to localhost only. Remote access needs http_addr and allow_remote.
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = "127.0.0.1:8090"
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}

	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = "http://127.0.0.1:8080"
	}
	if c.Backend.APIPrefix == "" {
		c.Backend.APIPrefix = "/api/v1"
	}
	if c.Backend.Timeout == "" {
		c.Backend.Timeout = "15s"
	}

	if c.Session.Backend == "" {
		c.Session.Backend = SessionBackendFile
	}
	if c.Session.Path == "" {
		switch c.Session.Backend {
		case SessionBackendFile:
			c.Session.Path = filepath.Join(DefaultStateDir(), "session.json")
		case SessionBackendSQLite:
			c.Session.Path = filepath.Join(DefaultStateDir(), "console.db")
		}
	}

	// viper.IsSet distinguishes "not set" from "explicitly false".
	if !viper.IsSet("telemetry.metrics") {
		c.Telemetry.Metrics = true
	}
}

// SetDevDefaults applies development overrides. No-op unless DevMode is set.
func (c *ConsoleConfig) SetDevDefaults() {
	if !c.DevMode {
		return
	}
	c.Server.LogLevel = "debug"
	if !viper.IsSet("telemetry.tracing") {
		c.Telemetry.Tracing = true
	}
}
