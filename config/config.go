// Package config loads and resolves client configuration for inferkit.
//
// Configuration comes from a file (JSON, YAML, or TOML, chosen by file
// extension) merged with caller-supplied overrides. The resolved Config is
// immutable after Load and safe to share across concurrent clients.
//
// There is no implicit default location: callers pass the path explicitly.
// DefaultPath is exported as a conventional filename for applications that
// want one.
package config

import (
	"fmt"
	"time"
)

// DefaultPath is the conventional configuration filename, resolved by
// applications against their own working directory.
const DefaultPath = "inferkit.json"

// Defaults applied when the file omits a key.
const (
	DefaultEndpoint = "/api/generate"
	DefaultTimeout  = 60 * time.Second
)

// Config is the resolved client configuration.
// Immutable after Load; safe for concurrent use.
type Config struct {
	// BaseURL is the inference server address, e.g. "http://localhost:11434".
	// Required.
	BaseURL string `json:"baseURL" yaml:"baseURL" toml:"baseURL"`

	// Endpoint is the generate endpoint path.
	// Default: "/api/generate".
	Endpoint string `json:"endpoint" yaml:"endpoint" toml:"endpoint"`

	// Timeout bounds a buffered generate call.
	// From the file's timeoutMs key. Default: 60s.
	Timeout time.Duration `json:"-" yaml:"-" toml:"-"`

	// DefaultHeaders are sent on every request.
	// Default: {"Content-Type": "application/json"}.
	DefaultHeaders map[string]string `json:"defaultHeaders" yaml:"defaultHeaders" toml:"defaultHeaders"`

	// Models is the informational model list from the file.
	// Not consumed by the client; surfaced for tooling.
	Models []string `json:"models" yaml:"models" toml:"models"`
}

// Default returns a Config with defaults applied and no file read.
// BaseURL must still be set before use.
func Default() Config {
	return Config{
		Endpoint: DefaultEndpoint,
		Timeout:  DefaultTimeout,
		DefaultHeaders: map[string]string{
			"Content-Type": "application/json",
		},
	}
}

// Validate checks if the configuration is usable.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("baseURL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0, got %v", c.Timeout)
	}
	return nil
}

// URL returns the full generate endpoint URL.
func (c Config) URL() string {
	return c.BaseURL + c.Endpoint
}

// withDefaults fills unset fields from Default.
func (c Config) withDefaults() Config {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.DefaultHeaders == nil {
		c.DefaultHeaders = map[string]string{
			"Content-Type": "application/json",
		}
	}
	return c
}

// Override adjusts a loaded Config. Overrides replace the loaded value
// wholesale; headers inherit unless explicitly overridden.
type Override func(*Config)

// WithBaseURL sets the server address.
func WithBaseURL(url string) Override {
	return func(c *Config) { c.BaseURL = url }
}

// WithEndpoint sets the generate endpoint path.
func WithEndpoint(path string) Override {
	return func(c *Config) { c.Endpoint = path }
}

// WithTimeout sets the buffered-call timeout.
func WithTimeout(d time.Duration) Override {
	return func(c *Config) { c.Timeout = d }
}

// WithDefaultHeaders replaces the header map entirely.
func WithDefaultHeaders(headers map[string]string) Override {
	return func(c *Config) { c.DefaultHeaders = headers }
}

// WithHeader sets a single header over the inherited map.
func WithHeader(key, value string) Override {
	return func(c *Config) {
		headers := make(map[string]string, len(c.DefaultHeaders)+1)
		for k, v := range c.DefaultHeaders {
			headers[k] = v
		}
		headers[key] = value
		c.DefaultHeaders = headers
	}
}
