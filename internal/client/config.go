package client

import (
	"fmt"
	"net/url"
	"time"
)

const (
	// DefaultPath is the analysis route exposed by the signal API
	DefaultPath = "/analyze_signal/analisar_sinal"

	// DefaultTimeout bounds a single analysis request
	DefaultTimeout = 10 * time.Second
)

// Config holds analysis service client configuration
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:8000
	BaseURL string `json:"base_url"`

	// Path is the analysis route below BaseURL
	Path string `json:"path"`

	// Timeout for HTTP requests
	Timeout time.Duration `json:"timeout"`
}

// DefaultConfig returns a configuration with everything but BaseURL set
func DefaultConfig() Config {
	return Config{
		Path:    DefaultPath,
		Timeout: DefaultTimeout,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is not configured (set client.base_url or SIGSUM_API_BASE_URL)")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base URL %q: scheme must be http or https", c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	return nil
}
