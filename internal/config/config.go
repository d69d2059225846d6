package config

import (
	"fmt"
	"strings"
	"time"

	"queryd/internal/common/fsutil"
)

// Defaults applied by WithDefaults when the corresponding field is unset.
const (
	DefaultAddr              = ":5000"
	DefaultBackend           = "ollama"
	DefaultRuntimeURL        = "http://localhost:11434"
	DefaultModel             = "gemma:2b"
	DefaultRequestTimeoutSec = 120
	DefaultMaxBodyBytes      = 1 << 20
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "console"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr string `json:"addr" yaml:"addr" toml:"addr"`
	// Backend selects the inference adapter: ollama, openai or llama.
	Backend    string `json:"backend" yaml:"backend" toml:"backend"`
	RuntimeURL string `json:"runtime_url" yaml:"runtime_url" toml:"runtime_url"`
	Model      string `json:"model" yaml:"model" toml:"model"`
	APIKey     string `json:"api_key" yaml:"api_key" toml:"api_key"`
	// ModelPath is the gguf file loaded by the in-process llama backend.
	ModelPath    string `json:"model_path" yaml:"model_path" toml:"model_path"`
	LlamaCtx     int    `json:"llama_ctx" yaml:"llama_ctx" toml:"llama_ctx"`
	LlamaThreads int    `json:"llama_threads" yaml:"llama_threads" toml:"llama_threads"`
	// RequestTimeoutSec bounds one model call. Negative disables the bound.
	RequestTimeoutSec int      `json:"request_timeout_sec" yaml:"request_timeout_sec" toml:"request_timeout_sec"`
	MaxBodyBytes      int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	CORSOrigins       []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	// CORSEnabled toggles the CORS middleware. Nil means enabled.
	CORSEnabled *bool  `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	LogLevel    string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat   string `json:"log_format" yaml:"log_format" toml:"log_format"`
}

// WithDefaults returns a copy of c with unset fields filled in.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Backend == "" {
		c.Backend = DefaultBackend
	}
	c.Backend = strings.ToLower(c.Backend)
	if c.RuntimeURL == "" {
		c.RuntimeURL = DefaultRuntimeURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.RequestTimeoutSec == 0 {
		c.RequestTimeoutSec = DefaultRequestTimeoutSec
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	return c
}

// Validate checks backend-specific requirements. For the llama backend it
// also resolves ModelPath to an absolute path.
func (c *Config) Validate() error {
	switch c.Backend {
	case "ollama", "openai":
		if c.RuntimeURL == "" {
			return fmt.Errorf("backend %s requires runtime_url", c.Backend)
		}
	case "llama":
		p, err := fsutil.ResolveFile(c.ModelPath)
		if err != nil {
			return fmt.Errorf("backend llama requires a readable model_path: %w", err)
		}
		c.ModelPath = p
	default:
		return fmt.Errorf("unknown backend: %q", c.Backend)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format: %q", c.LogFormat)
	}
	return nil
}

// CORS reports whether the CORS middleware should be installed.
func (c Config) CORS() bool { return c.CORSEnabled == nil || *c.CORSEnabled }

// RequestTimeout converts RequestTimeoutSec; zero means no bound.
func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSec <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeoutSec) * time.Second
}
