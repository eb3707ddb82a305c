package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	symhttp "github.com/ligustah/symfetch/internal/http"
	"github.com/ligustah/symfetch/internal/idset"
)

// EnvPrefix prefixes every environment variable read by LoadFromEnv.
const EnvPrefix = "SYMFETCH"

// DefaultBaseURL is the origin serving the H188 documentation PNGs.
const DefaultBaseURL = "http://www.blissymbolics.net/png_h188_doc"

// Config defines configuration for the symfetch CLI.
type Config struct {
	BaseURL      string        `yaml:"base_url" envconfig:"BASE_URL"`
	Out          string        `yaml:"out" envconfig:"OUT"`
	IDColumn     string        `yaml:"id_column" envconfig:"ID_COLUMN"`
	OnlyMissing  bool          `yaml:"only_missing" envconfig:"ONLY_MISSING"`
	Overwrite    bool          `yaml:"overwrite" envconfig:"OVERWRITE"`
	Workers      int           `yaml:"workers" envconfig:"WORKERS"`
	Throttle     time.Duration `yaml:"throttle" envconfig:"THROTTLE"`
	Timeout      time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	Retries      int           `yaml:"retries" envconfig:"RETRIES"`
	RetryBackoff time.Duration `yaml:"retry_backoff" envconfig:"RETRY_BACKOFF"`
	Max          int           `yaml:"max" envconfig:"MAX"`
	UserAgent    string        `yaml:"user_agent" envconfig:"USER_AGENT"`
	Progress     bool          `yaml:"progress" envconfig:"PROGRESS"`
	Log          LogConfig     `yaml:"log" envconfig:"LOG"`
}

// LogConfig defines logging behavior.
type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"`
	File   string `yaml:"file" envconfig:"FILE"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		BaseURL:      DefaultBaseURL,
		Out:          "bliss_h188_documentation_id_png",
		IDColumn:     idset.DefaultColumn,
		Workers:      2,
		Throttle:     50 * time.Millisecond,
		Timeout:      20 * time.Second,
		Retries:      2,
		RetryBackoff: 250 * time.Millisecond,
		UserAgent:    symhttp.DefaultUserAgent,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
// Unknown keys are rejected.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// LoadFromEnv overrides c with environment variables.
// Environment variables use the SYMFETCH_ prefix; unset variables leave the
// current value alone.
func (c *Config) LoadFromEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("config: base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: base URL must be an absolute http(s) URL: %q", c.BaseURL)
	}
	if c.Out == "" {
		return errors.New("config: out is required")
	}
	if c.Workers <= 0 {
		return errors.New("config: workers must be positive")
	}
	if c.Retries < 0 {
		return errors.New("config: retries must not be negative")
	}
	if c.Timeout <= 0 {
		return errors.New("config: timeout must be positive")
	}
	if c.Throttle < 0 || c.RetryBackoff < 0 {
		return errors.New("config: throttle and retry backoff must not be negative")
	}
	if c.Max < 0 {
		return errors.New("config: max must not be negative")
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	return nil
}

// HTTPOptions returns the client options described by c.
func (c *Config) HTTPOptions() symhttp.Options {
	opts := symhttp.DefaultOptions()
	opts.Timeout = c.Timeout
	if c.UserAgent != "" {
		opts.UserAgent = c.UserAgent
	}
	if c.Workers > opts.MaxIdleConnsPerHost {
		opts.MaxIdleConnsPerHost = c.Workers
	}
	return opts
}
