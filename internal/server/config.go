package server

import (
	"fmt"
	"time"
)

// Default server settings
const (
	DefaultAddress         = ":8000"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
	DefaultMaxBodyBytes    = 1 << 20

	// Version is reported by the root endpoint
	Version = "1.0.0"
)

// Config holds HTTP server settings
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// RateLimit is requests per second per client address. Zero disables limiting.
	RateLimit float64
	RateBurst int

	MaxBodyBytes int64
}

// DefaultConfig returns the default server configuration
func DefaultConfig() Config {
	return Config{
		Address:         DefaultAddress,
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		MaxBodyBytes:    DefaultMaxBodyBytes,
	}
}

// Validate checks the configuration for invalid values
func (c Config) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("server address is required")
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.ShutdownTimeout < 0 {
		return fmt.Errorf("server timeouts cannot be negative")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit cannot be negative, got %g", c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		return fmt.Errorf("rate burst must be at least 1 when rate limiting is enabled, got %d", c.RateBurst)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive, got %d", c.MaxBodyBytes)
	}
	return nil
}
