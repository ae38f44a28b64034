package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const (
	DefaultInterval = 10 * time.Second
	DefaultTimeout  = 5 * time.Second
)

type Config struct {
	Endpoints   []string      // ordered; order is preserved for display
	Interval    time.Duration // time between round dispatches
	Timeout     time.Duration // per-probe deadline
	Concurrency int           // max in-flight probes per round; 0 = one per endpoint
	LogDir      string        // logs directory
	APIAddr     string        // snapshot API bind address; empty disables the API
}

// FromEnv reads the ambient settings. Endpoints come from the command line or
// a config file, not the environment.
func FromEnv() Config {
	cfg := Config{
		Interval: DefaultInterval,
		Timeout:  DefaultTimeout,
		LogDir:   "logs",
	}

	if v := os.Getenv("LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	cfg.APIAddr = os.Getenv("API_ADDR")

	if v := os.Getenv("CHECK_INTERVAL_S"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Interval = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("HTTP_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.Timeout = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("MAX_CONCURRENT_CHECKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Concurrency = n
		}
	}

	return cfg
}

type fileConfig struct {
	Interval  int      `yaml:"interval"`
	Endpoints []string `yaml:"endpoints"`
}

// LoadFile merges a YAML endpoints file into cfg. The file's interval, when
// set, overrides the environment's.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if len(fc.Endpoints) == 0 {
		return fmt.Errorf("config %s: no endpoints defined", path)
	}

	c.Endpoints = fc.Endpoints
	if fc.Interval > 0 {
		c.Interval = time.Duration(fc.Interval) * time.Second
	}
	return nil
}

// Validate reports every configuration problem at once. Any error is fatal
// and must be surfaced before monitoring starts.
func (c Config) Validate() error {
	var err error

	if len(c.Endpoints) == 0 {
		err = multierr.Append(err, fmt.Errorf("no endpoints configured"))
	}
	for _, e := range c.Endpoints {
		if verr := validateURL(e); verr != nil {
			err = multierr.Append(err, verr)
		}
	}
	if c.Interval <= 0 {
		err = multierr.Append(err, fmt.Errorf("interval must be positive, got %v", c.Interval))
	}
	if c.Timeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("timeout must be positive, got %v", c.Timeout))
	}
	return err
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid URL %q: missing host", raw)
	}
	return nil
}
