package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// configName is the base name of the config file.
const configName = "opsconsole"

// InitViper initializes Viper with the configuration file and environment variables.
// If configFile is empty, it searches for opsconsole.yaml/.yml in standard locations.
// The search requires an explicit YAML extension so the binary itself is never
// mistaken for a config file.
func InitViper(configFile string) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else if found := findConfigFile(); found != "" {
		viper.SetConfigFile(found)
	} else {
		// Without search paths ReadInConfig returns ConfigFileNotFoundError,
		// which callers tolerate.
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
	}

	// Environment variable support: OPSCONSOLE_BACKEND_BASE_URL
	viper.SetEnvPrefix("OPSCONSOLE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	bindNestedEnvKeys()
}

// findConfigFile searches ., ~/.opsconsole and the system config directory.
func findConfigFile() string {
	paths := []string{".", DefaultStateDir()}
	if runtime.GOOS == "windows" {
		if pd := os.Getenv("ProgramData"); pd != "" {
			paths = append(paths, filepath.Join(pd, configName))
		}
	} else {
		paths = append(paths, "/etc/"+configName)
	}
	return findConfigFileInPaths(paths)
}

// findConfigFileInPaths returns the first opsconsole.yaml or .yml found in
// paths, or "".
func findConfigFileInPaths(paths []string) string {
	for _, dir := range paths {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, configName+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// bindNestedEnvKeys binds every key so nested values can be overridden by
// environment variables, e.g. OPSCONSOLE_SERVER_HTTP_ADDR.
func bindNestedEnvKeys() {
	_ = viper.BindEnv("server.http_addr")
	_ = viper.BindEnv("server.allow_remote")
	_ = viper.BindEnv("server.log_level")
	_ = viper.BindEnv("server.secure_cookies")

	_ = viper.BindEnv("backend.base_url")
	_ = viper.BindEnv("backend.api_prefix")
	_ = viper.BindEnv("backend.timeout")

	_ = viper.BindEnv("session.backend")
	_ = viper.BindEnv("session.path")

	_ = viper.BindEnv("telemetry.metrics")
	_ = viper.BindEnv("telemetry.tracing")

	_ = viper.BindEnv("dev_mode")
}

// LoadConfig reads the configuration file, applies environment overrides,
// sets defaults, validates, and returns the ConsoleConfig.
func LoadConfig() (*ConsoleConfig, error) {
	cfg, err := LoadConfigRaw()
	if err != nil {
		return nil, err
	}

	cfg.SetDevDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadConfigRaw reads the configuration file and applies defaults,
// but does NOT apply dev defaults or validate.
// Use this when CLI flags may override fields before validation.
func LoadConfigRaw() (*ConsoleConfig, error) {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file: run on environment variables and defaults.
	}

	var cfg ConsoleConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.SetDefaults()
	return &cfg, nil
}

// ConfigFileUsed returns the path to the configuration file that was loaded.
// Returns an empty string if no config file was found (env vars only mode).
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}
