package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/yildizm/SigSum/internal/client"
	"github.com/yildizm/SigSum/internal/server"
)

// Config holds the complete application configuration
type Config struct {
	Version string       `yaml:"version" json:"version"`
	Client  ClientConfig `yaml:"client" json:"client"`
	Server  ServerConfig `yaml:"server" json:"server"`
	Output  OutputConfig `yaml:"output" json:"output"`
	UI      UIConfig     `yaml:"ui" json:"ui"`
}

// ClientConfig configures the analysis API client
type ClientConfig struct {
	BaseURL string        `yaml:"base_url" json:"base_url"` // API root, e.g. http://localhost:8000
	Path    string        `yaml:"path" json:"path"`         // analysis endpoint path
	Timeout time.Duration `yaml:"timeout" json:"timeout"`   // request timeout
}

// ServerConfig configures the HTTP API started by `sigsum serve`
type ServerConfig struct {
	Address         string        `yaml:"address" json:"address"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
	RateLimit       float64       `yaml:"rate_limit" json:"rate_limit"` // requests/second per client, 0 disables
	RateBurst       int           `yaml:"rate_burst" json:"rate_burst"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|markdown|csv
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`
}

// UIConfig configures the interactive form
type UIConfig struct {
	Theme string `yaml:"theme" json:"theme"` // default|high-contrast|minimal
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	srv := server.DefaultConfig()
	return &Config{
		Version: "1.0",
		Client: ClientConfig{
			BaseURL: "http://localhost:8000",
			Path:    client.DefaultPath,
			Timeout: client.DefaultTimeout,
		},
		Server: ServerConfig{
			Address:         srv.Address,
			ReadTimeout:     srv.ReadTimeout,
			WriteTimeout:    srv.WriteTimeout,
			ShutdownTimeout: srv.ShutdownTimeout,
			RateLimit:       0,
			RateBurst:       20,
			MaxBodyBytes:    srv.MaxBodyBytes,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Verbose:       false,
		},
		UI: UIConfig{
			Theme: "default",
		},
	}
}

// ClientSettings converts the client section for client.New
func (c *Config) ClientSettings() client.Config {
	return client.Config{
		BaseURL: c.Client.BaseURL,
		Path:    c.Client.Path,
		Timeout: c.Client.Timeout,
	}
}

// ServerSettings converts the server section for server.New
func (c *Config) ServerSettings() server.Config {
	return server.Config{
		Address:         c.Server.Address,
		ReadTimeout:     c.Server.ReadTimeout,
		WriteTimeout:    c.Server.WriteTimeout,
		ShutdownTimeout: c.Server.ShutdownTimeout,
		RateLimit:       c.Server.RateLimit,
		RateBurst:       c.Server.RateBurst,
		MaxBodyBytes:    c.Server.MaxBodyBytes,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateClientConfig(); err != nil {
		return err
	}
	if err := c.validateServerConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if err := c.validateUIConfig(); err != nil {
		return err
	}
	return nil
}

// validateClientConfig validates client-related configuration
func (c *Config) validateClientConfig() error {
	if c.Client.BaseURL != "" {
		u, err := url.Parse(c.Client.BaseURL)
		if err != nil {
			return fmt.Errorf("invalid client base_url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid client base_url: %s (scheme must be http or https)", c.Client.BaseURL)
		}
	}
	if c.Client.Timeout < 0 {
		return fmt.Errorf("client timeout must be non-negative")
	}
	return nil
}

// validateServerConfig validates server-related configuration
func (c *Config) validateServerConfig() error {
	if err := c.ServerSettings().Validate(); err != nil {
		return fmt.Errorf("invalid server section: %w", err)
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
			"csv":      true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown, csv)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}

// validateUIConfig validates UI-related configuration
func (c *Config) validateUIConfig() error {
	if c.UI.Theme == "" {
		return nil
	}
	switch c.UI.Theme {
	case "default", "high-contrast", "minimal":
		return nil
	default:
		return fmt.Errorf("invalid UI theme: %s (must be one of: default, high-contrast, minimal)", c.UI.Theme)
	}
}
