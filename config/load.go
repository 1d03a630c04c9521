package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LoadError reports a configuration file that is missing or malformed.
// It is fatal to the construction attempt that triggered the load.
type LoadError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("load config %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// fileConfig is the on-disk shape. Durations are expressed in
// milliseconds, matching the timeoutMs key of the wire format.
type fileConfig struct {
	BaseURL        string            `json:"baseURL" yaml:"baseURL" toml:"baseURL"`
	Endpoint       string            `json:"endpoint" yaml:"endpoint" toml:"endpoint"`
	TimeoutMs      int               `json:"timeoutMs" yaml:"timeoutMs" toml:"timeoutMs"`
	DefaultHeaders map[string]string `json:"defaultHeaders" yaml:"defaultHeaders" toml:"defaultHeaders"`
	Models         []string          `json:"models" yaml:"models" toml:"models"`
}

// Load reads the configuration file at path, fills defaults for absent
// keys, and applies overrides by full key replacement. A missing or
// malformed file returns a *LoadError.
func Load(path string, overrides ...Override) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &LoadError{Path: path, Err: err}
	}

	var fc fileConfig
	if err := decode(path, data, &fc); err != nil {
		return Config{}, &LoadError{Path: path, Err: err}
	}

	cfg := Config{
		BaseURL:        fc.BaseURL,
		Endpoint:       fc.Endpoint,
		DefaultHeaders: fc.DefaultHeaders,
		Models:         fc.Models,
	}
	if fc.TimeoutMs != 0 {
		cfg.Timeout = msToDuration(fc.TimeoutMs)
	}
	cfg = cfg.withDefaults()

	for _, o := range overrides {
		o(&cfg)
	}
	return cfg, nil
}

// decode picks the decoder by file extension. Unknown extensions are
// treated as JSON, the primary format.
func decode(path string, data []byte, fc *fileConfig) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, fc); err != nil {
			return fmt.Errorf("parse yaml: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, fc); err != nil {
			return fmt.Errorf("parse toml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, fc); err != nil {
			return fmt.Errorf("parse json: %w", err)
		}
	}
	return nil
}

func msToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
