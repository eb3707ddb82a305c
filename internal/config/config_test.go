package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("expected default base URL, got %s", cfg.BaseURL)
	}
	if cfg.Out != "bliss_h188_documentation_id_png" {
		t.Errorf("unexpected default out %q", cfg.Out)
	}
	if cfg.Workers != 2 {
		t.Errorf("expected default workers 2, got %d", cfg.Workers)
	}
	if cfg.Throttle != 50*time.Millisecond {
		t.Errorf("expected default throttle 50ms, got %v", cfg.Throttle)
	}
	if cfg.Timeout != 20*time.Second {
		t.Errorf("expected default timeout 20s, got %v", cfg.Timeout)
	}
	if cfg.Retries != 2 {
		t.Errorf("expected default retries 2, got %d", cfg.Retries)
	}
	if cfg.RetryBackoff != 250*time.Millisecond {
		t.Errorf("expected default retry backoff 250ms, got %v", cfg.RetryBackoff)
	}
	if cfg.Max != 0 {
		t.Errorf("expected no default cap, got %d", cfg.Max)
	}
	if cfg.IDColumn != "BCI-AV#" {
		t.Errorf("unexpected default id column %q", cfg.IDColumn)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := writeConfig(t, `
base_url: https://mirror.example.com/png
out: s3://symbols/h188
workers: 8
throttle: 0s
retries: 0
retry_backoff: 1s
only_missing: true
log:
  level: debug
  format: json
`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.BaseURL != "https://mirror.example.com/png" {
		t.Errorf("unexpected base URL %s", cfg.BaseURL)
	}
	if cfg.Out != "s3://symbols/h188" {
		t.Errorf("unexpected out %s", cfg.Out)
	}
	if cfg.Workers != 8 {
		t.Errorf("expected workers 8, got %d", cfg.Workers)
	}
	if cfg.Throttle != 0 {
		t.Errorf("expected throttle 0, got %v", cfg.Throttle)
	}
	if cfg.Retries != 0 {
		t.Errorf("expected retries 0, got %d", cfg.Retries)
	}
	if cfg.RetryBackoff != time.Second {
		t.Errorf("expected retry backoff 1s, got %v", cfg.RetryBackoff)
	}
	if !cfg.OnlyMissing {
		t.Error("expected only_missing true")
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log config %+v", cfg.Log)
	}

	// Keys absent from the file keep their defaults.
	if cfg.Timeout != 20*time.Second {
		t.Errorf("expected default timeout, got %v", cfg.Timeout)
	}
}

func TestLoadFromEmptyFile(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, "\n"))
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg != Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SYMFETCH_BASE_URL", "https://env.example.com")
	t.Setenv("SYMFETCH_WORKERS", "64")
	t.Setenv("SYMFETCH_RETRIES", "0")
	t.Setenv("SYMFETCH_RETRY_BACKOFF", "500ms")
	t.Setenv("SYMFETCH_OVERWRITE", "true")
	t.Setenv("SYMFETCH_LOG_LEVEL", "warn")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if cfg.BaseURL != "https://env.example.com" {
		t.Errorf("unexpected base URL %s", cfg.BaseURL)
	}
	if cfg.Workers != 64 {
		t.Errorf("expected workers 64, got %d", cfg.Workers)
	}
	if cfg.Retries != 0 {
		t.Errorf("expected retries 0, got %d", cfg.Retries)
	}
	if cfg.RetryBackoff != 500*time.Millisecond {
		t.Errorf("expected retry backoff 500ms, got %v", cfg.RetryBackoff)
	}
	if !cfg.Overwrite {
		t.Error("expected overwrite true")
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected log level warn, got %s", cfg.Log.Level)
	}

	// Unset variables keep the previous value.
	if cfg.Throttle != 50*time.Millisecond {
		t.Errorf("expected default throttle, got %v", cfg.Throttle)
	}
}

func TestLoadFromEnvInvalid(t *testing.T) {
	t.Setenv("SYMFETCH_WORKERS", "many")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err == nil {
		t.Error("expected error for non-numeric workers")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bucket out", func(c *Config) { c.Out = "mem://" }, false},
		{"zero retries", func(c *Config) { c.Retries = 0 }, false},
		{"missing base URL", func(c *Config) { c.BaseURL = "" }, true},
		{"relative base URL", func(c *Config) { c.BaseURL = "png_h188_doc" }, true},
		{"ftp base URL", func(c *Config) { c.BaseURL = "ftp://example.com" }, true},
		{"missing out", func(c *Config) { c.Out = "" }, true},
		{"zero workers", func(c *Config) { c.Workers = 0 }, true},
		{"negative retries", func(c *Config) { c.Retries = -1 }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"negative throttle", func(c *Config) { c.Throttle = -time.Millisecond }, true},
		{"negative max", func(c *Config) { c.Max = -1 }, true},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHTTPOptions(t *testing.T) {
	cfg := Default()
	cfg.Timeout = 3 * time.Second
	cfg.UserAgent = "test-agent"
	cfg.Workers = 64

	opts := cfg.HTTPOptions()
	if opts.Timeout != 3*time.Second {
		t.Errorf("expected timeout 3s, got %v", opts.Timeout)
	}
	if opts.UserAgent != "test-agent" {
		t.Errorf("expected user agent, got %s", opts.UserAgent)
	}
	if opts.MaxIdleConnsPerHost != 64 {
		t.Errorf("expected idle conns to follow workers, got %d", opts.MaxIdleConnsPerHost)
	}
}

func TestLoadYAMLFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadYAMLInvalid(t *testing.T) {
	_, err := LoadFromFile(writeConfig(t, "invalid: [yaml: content"))
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadYAMLUnknownKey(t *testing.T) {
	_, err := LoadFromFile(writeConfig(t, "chunk_size: 256MB\n"))
	if err == nil {
		t.Error("expected error for unknown key")
	}
}
