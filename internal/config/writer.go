package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigExists is returned by WriteDefault when the target file exists
// and overwrite was not requested.
var ErrConfigExists = errors.New("config file already exists")

// Default returns a ConsoleConfig populated with defaults only.
func Default() *ConsoleConfig {
	var cfg ConsoleConfig
	cfg.SetDefaults()
	cfg.Telemetry.Metrics = true
	return &cfg
}

// MarshalYAML renders cfg as an opsconsole.yaml document.
func MarshalYAML(cfg *ConsoleConfig) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	header := []byte("# opsconsole configuration\n# Environment variables override any key, e.g. OPSCONSOLE_BACKEND_BASE_URL.\n")
	return append(header, out...), nil
}

// WriteDefault writes a default config file to path with 0600 permissions.
func WriteDefault(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}

	data, err := MarshalYAML(Default())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
