package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SampleConfig renders the default configuration as a commented YAML file
func SampleConfig() string {
	d := DefaultConfig()
	return fmt.Sprintf(`# SigSum configuration
# Searched in ./.sigsum.yaml, ~/.config/sigsum/config.yaml, /etc/sigsum/config.yaml.
# Every key can be overridden with a SIGSUM_* environment variable or a .env file.
version: %q

client:
  # Root URL of the analysis API (SIGSUM_API_BASE_URL)
  base_url: %q
  path: %q
  timeout: %s

server:
  address: %q
  read_timeout: %s
  write_timeout: %s
  shutdown_timeout: %s
  # Requests per second per client address; 0 disables limiting
  rate_limit: %g
  rate_burst: %d
  max_body_bytes: %d

output:
  # text | json | markdown | csv
  default_format: %q
  # auto | always | never
  color_mode: %q
  verbose: %t

ui:
  # default | high-contrast | minimal
  theme: %q
`,
		d.Version,
		d.Client.BaseURL, d.Client.Path, d.Client.Timeout,
		d.Server.Address, d.Server.ReadTimeout, d.Server.WriteTimeout, d.Server.ShutdownTimeout,
		d.Server.RateLimit, d.Server.RateBurst, d.Server.MaxBodyBytes,
		d.Output.DefaultFormat, d.Output.ColorMode, d.Output.Verbose,
		d.UI.Theme,
	)
}

// Marshal renders cfg as YAML
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
