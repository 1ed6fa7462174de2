package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.sigsum.yaml",               // Project-specific config (highest priority)
	"~/.config/sigsum/config.yaml", // User config
	"/etc/sigsum/config.yaml",      // System config (lowest priority)
}

// DefaultEnvFile is read for SIGSUM_* variables before the environment is applied
const DefaultEnvFile = ".env"

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	envFile     string
	warn        func(format string, args ...interface{})
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		envFile:     DefaultEnvFile,
		warn: func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
		},
	}
}

// WithEnvFile sets the dotenv file to read. An empty path disables it.
func (l *Loader) WithEnvFile(path string) *Loader {
	l.envFile = path
	return l
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. .env file (never overrides variables already set)
// 4. ./.sigsum.yaml
// 5. ~/.config/sigsum/config.yaml
// 6. /etc/sigsum/config.yaml
// 7. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	// If custom path is provided, use only that path
	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// lowest priority first
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if !fileExists(expandedPath) {
				continue
			}
			if err := l.loadFromFile(config, expandedPath); err != nil {
				l.warn("Failed to load config from %s: %v", expandedPath, err)
			}
		}
	}

	if err := l.loadEnvFile(); err != nil {
		return nil, err
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile decodes a YAML file over config. Keys absent from the file
// keep their current values.
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	merged := *config
	if err := yaml.Unmarshal(data, &merged); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	*config = merged

	return nil
}

// loadEnvFile exports variables from the dotenv file without overriding the
// process environment. A missing file is not an error.
func (l *Loader) loadEnvFile() error {
	if l.envFile == "" {
		return nil
	}
	if err := godotenv.Load(l.envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", l.envFile, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// Client Config
		"SIGSUM_API_BASE_URL":   func(v string) error { config.Client.BaseURL = v; return nil },
		"SIGSUM_CLIENT_PATH":    func(v string) error { config.Client.Path = v; return nil },
		"SIGSUM_CLIENT_TIMEOUT": func(v string) error { return parseDuration(v, &config.Client.Timeout) },

		// Server Config
		"SIGSUM_SERVER_ADDRESS":          func(v string) error { config.Server.Address = v; return nil },
		"SIGSUM_SERVER_READ_TIMEOUT":     func(v string) error { return parseDuration(v, &config.Server.ReadTimeout) },
		"SIGSUM_SERVER_WRITE_TIMEOUT":    func(v string) error { return parseDuration(v, &config.Server.WriteTimeout) },
		"SIGSUM_SERVER_SHUTDOWN_TIMEOUT": func(v string) error { return parseDuration(v, &config.Server.ShutdownTimeout) },
		"SIGSUM_SERVER_RATE_LIMIT":       func(v string) error { return parseFloat(v, &config.Server.RateLimit) },
		"SIGSUM_SERVER_RATE_BURST":       func(v string) error { return parseInt(v, &config.Server.RateBurst) },
		"SIGSUM_SERVER_MAX_BODY_BYTES":   func(v string) error { return parseInt64(v, &config.Server.MaxBodyBytes) },

		// Output Config
		"SIGSUM_OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"SIGSUM_OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"SIGSUM_OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },

		// UI Config
		"SIGSUM_UI_THEME": func(v string) error { config.UI.Theme = v; return nil },
	}

	for envVar, setter := range envMappings {
		if value := strings.TrimSpace(os.Getenv(envVar)); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the highest priority existing config file
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/proc/") || strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseInt64(s string, dst *int64) error {
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseFloat(s string, dst *float64) error {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
