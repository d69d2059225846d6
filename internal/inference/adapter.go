package inference

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Backend names accepted by New.
const (
	BackendOllama = "ollama"
	BackendOpenAI = "openai"
	BackendLlama  = "llama"
)

const (
	DefaultModel      = "gemma:2b"
	DefaultRuntimeURL = "http://localhost:11434"

	defaultConnectTimeout = 5 * time.Second
)

// Adapter sends text to a language model and returns its completion.
type Adapter interface {
	// Ask blocks until the model has produced the whole completion for text
	// or ctx is done.
	Ask(ctx context.Context, text string) (string, error)
	// Ping reports whether the model runtime is reachable.
	Ping(ctx context.Context) error
	// Close releases the client handle.
	Close() error
}

// Config selects and parameterizes a backend.
type Config struct {
	Backend   string
	BaseURL   string
	Model     string
	APIKey    string
	ModelPath string

	LlamaCtx     int
	LlamaThreads int

	// RequestTimeout bounds each Ask call. Zero disables the bound.
	RequestTimeout time.Duration
	ConnectTimeout time.Duration

	Logger zerolog.Logger
}

// New builds the adapter named by cfg.Backend, wrapped with the request
// timeout, logging and metrics.
func New(cfg Config) (Adapter, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = BackendOllama
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultRuntimeURL
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}

	var (
		a   Adapter
		err error
	)
	switch backend {
	case BackendOllama:
		a = NewOllamaAdapter(cfg.BaseURL, cfg.Model, cfg.ConnectTimeout)
	case BackendOpenAI:
		a = NewOpenAIAdapter(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.ConnectTimeout)
	case BackendLlama:
		a, err = NewLlamaAdapter(cfg.ModelPath, cfg.LlamaCtx, cfg.LlamaThreads)
	default:
		return nil, fmt.Errorf("unknown inference backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return &instrumented{
		next:    a,
		backend: backend,
		model:   cfg.Model,
		timeout: cfg.RequestTimeout,
		log:     cfg.Logger,
	}, nil
}
