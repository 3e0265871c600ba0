package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestConsoleConfig_SetDefaults(t *testing.T) {
	t.Parallel()

	var cfg ConsoleConfig
	cfg.SetDefaults()

	if cfg.Server.HTTPAddr != "127.0.0.1:8090" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.Server.HTTPAddr, "127.0.0.1:8090")
	}
	if cfg.Server.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.Server.LogLevel, "info")
	}
	if cfg.Backend.BaseURL != "http://127.0.0.1:8080" {
		t.Errorf("BaseURL = %q, want %q", cfg.Backend.BaseURL, "http://127.0.0.1:8080")
	}
	if cfg.Backend.APIPrefix != "/api/v1" {
		t.Errorf("APIPrefix = %q, want %q", cfg.Backend.APIPrefix, "/api/v1")
	}
	if cfg.Backend.Timeout != "15s" {
		t.Errorf("Timeout = %q, want %q", cfg.Backend.Timeout, "15s")
	}
	if cfg.Session.Backend != SessionBackendFile {
		t.Errorf("Session.Backend = %q, want %q", cfg.Session.Backend, SessionBackendFile)
	}
	if filepath.Base(cfg.Session.Path) != "session.json" {
		t.Errorf("Session.Path = %q, want a session.json path", cfg.Session.Path)
	}
	if !cfg.Telemetry.Metrics {
		t.Error("Telemetry.Metrics should default to true")
	}
}

func TestConsoleConfig_SetDefaults_SQLitePath(t *testing.T) {
	t.Parallel()

	cfg := ConsoleConfig{Session: SessionConfig{Backend: SessionBackendSQLite}}
	cfg.SetDefaults()

	if filepath.Base(cfg.Session.Path) != "console.db" {
		t.Errorf("Session.Path = %q, want a console.db path", cfg.Session.Path)
	}
}

func TestConsoleConfig_SetDefaults_MemoryHasNoPath(t *testing.T) {
	t.Parallel()

	cfg := ConsoleConfig{Session: SessionConfig{Backend: SessionBackendMemory}}
	cfg.SetDefaults()

	if cfg.Session.Path != "" {
		t.Errorf("Session.Path = %q, want empty for memory backend", cfg.Session.Path)
	}
}

func TestConsoleConfig_SetDefaults_PreservesExistingValues(t *testing.T) {
	t.Parallel()

	cfg := ConsoleConfig{
		Server:  ServerConfig{HTTPAddr: "127.0.0.1:9999", LogLevel: "warn"},
		Backend: BackendConfig{BaseURL: "https://api.example.com", APIPrefix: "/admin", Timeout: "3s"},
		Session: SessionConfig{Backend: SessionBackendFile, Path: "/tmp/s.json"},
	}
	cfg.SetDefaults()

	if cfg.Server.HTTPAddr != "127.0.0.1:9999" {
		t.Errorf("HTTPAddr = %q, want preserved", cfg.Server.HTTPAddr)
	}
	if cfg.Server.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want preserved", cfg.Server.LogLevel)
	}
	if cfg.Backend.BaseURL != "https://api.example.com" {
		t.Errorf("BaseURL = %q, want preserved", cfg.Backend.BaseURL)
	}
	if cfg.Backend.APIPrefix != "/admin" {
		t.Errorf("APIPrefix = %q, want preserved", cfg.Backend.APIPrefix)
	}
	if cfg.Backend.Timeout != "3s" {
		t.Errorf("Timeout = %q, want preserved", cfg.Backend.Timeout)
	}
	if cfg.Session.Path != "/tmp/s.json" {
		t.Errorf("Session.Path = %q, want preserved", cfg.Session.Path)
	}
}

func TestConsoleConfig_SetDevDefaults(t *testing.T) {
	t.Parallel()

	cfg := ConsoleConfig{DevMode: true}
	cfg.SetDefaults()
	cfg.SetDevDefaults()

	if cfg.Server.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q in dev mode", cfg.Server.LogLevel, "debug")
	}
	if !cfg.Telemetry.Tracing {
		t.Error("Telemetry.Tracing should default to true in dev mode")
	}
}

func TestConsoleConfig_SetDevDefaults_NoopWithoutDevMode(t *testing.T) {
	t.Parallel()

	var cfg ConsoleConfig
	cfg.SetDefaults()
	cfg.SetDevDefaults()

	if cfg.Server.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.Server.LogLevel, "info")
	}
	if cfg.Telemetry.Tracing {
		t.Error("Telemetry.Tracing should stay off outside dev mode")
	}
}

func TestFindConfigFileInPaths_EmptyDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if got := findConfigFileInPaths([]string{dir}); got != "" {
		t.Errorf("findConfigFileInPaths() = %q, want empty", got)
	}
}

func TestFindConfigFileInPaths_MatchesYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	want := filepath.Join(dir, "opsconsole.yaml")
	if err := os.WriteFile(want, []byte("dev_mode: true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := findConfigFileInPaths([]string{dir}); got != want {
		t.Errorf("findConfigFileInPaths() = %q, want %q", got, want)
	}
}

func TestFindConfigFileInPaths_MatchesYML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	want := filepath.Join(dir, "opsconsole.yml")
	if err := os.WriteFile(want, []byte("dev_mode: true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := findConfigFileInPaths([]string{dir}); got != want {
		t.Errorf("findConfigFileInPaths() = %q, want %q", got, want)
	}
}

func TestFindConfigFileInPaths_IgnoresNoExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// The binary itself is named opsconsole.
	if err := os.WriteFile(filepath.Join(dir, "opsconsole"), []byte("\x7fELF"), 0o700); err != nil {
		t.Fatal(err)
	}
	if got := findConfigFileInPaths([]string{dir}); got != "" {
		t.Errorf("findConfigFileInPaths() = %q, want empty", got)
	}
}

func TestFindConfigFileInPaths_SearchOrder(t *testing.T) {
	t.Parallel()

	first := t.TempDir()
	second := t.TempDir()
	want := filepath.Join(first, "opsconsole.yml")
	for _, p := range []string{want, filepath.Join(second, "opsconsole.yaml")} {
		if err := os.WriteFile(p, []byte("{}\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if got := findConfigFileInPaths([]string{first, second}); got != want {
		t.Errorf("findConfigFileInPaths() = %q, want %q", got, want)
	}
}

func TestWriteDefault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "opsconsole.yaml")
	if err := WriteDefault(path, false); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# opsconsole configuration") {
		t.Errorf("missing header in %q", data)
	}

	var got ConsoleConfig
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("written file is not valid YAML: %v", err)
	}
	if got.Backend.APIPrefix != "/api/v1" {
		t.Errorf("Backend.APIPrefix = %q, want %q", got.Backend.APIPrefix, "/api/v1")
	}
	if !got.Telemetry.Metrics {
		t.Error("Telemetry.Metrics should be written as true")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("permissions = %o, want 600", perm)
	}
}

func TestWriteDefault_RefusesOverwrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "opsconsole.yaml")
	if err := os.WriteFile(path, []byte("dev_mode: true\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	err := WriteDefault(path, false)
	if !errors.Is(err, ErrConfigExists) {
		t.Fatalf("WriteDefault() error = %v, want ErrConfigExists", err)
	}
	if err := WriteDefault(path, true); err != nil {
		t.Fatalf("WriteDefault(overwrite) error = %v", err)
	}
}
