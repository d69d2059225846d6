//go:build llama

package inference

import (
	"context"
	"errors"
	"strings"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"
)

const (
	defaultLlamaCtx    = 2048
	defaultLlamaTokens = 512
)

// llamaAdapter owns one model loaded in-process. go-llama.cpp contexts are
// not safe for concurrent predictions, so calls are serialized.
type llamaAdapter struct {
	mu      sync.Mutex
	model   *llama.LLama
	threads int
}

// NewLlamaAdapter loads the gguf file at modelPath.
func NewLlamaAdapter(modelPath string, ctxSize, threads int) (Adapter, error) {
	if strings.TrimSpace(modelPath) == "" {
		return nil, errors.New("model path is empty")
	}
	if ctxSize <= 0 {
		ctxSize = defaultLlamaCtx
	}
	m, err := llama.New(modelPath, llama.SetContext(ctxSize))
	if err != nil {
		return nil, err
	}
	return &llamaAdapter{model: m, threads: max(1, threads)}, nil
}

func (a *llamaAdapter) Ask(ctx context.Context, text string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.model == nil {
		return "", ErrDependencyUnavailable("llama model not loaded")
	}
	// Returning false from the callback stops generation.
	a.model.SetTokenCallback(func(string) bool { return ctx.Err() == nil })
	out, err := a.model.Predict(text,
		llama.SetTokens(defaultLlamaTokens),
		llama.SetThreads(a.threads),
	)
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err != nil {
		return "", &runtimeError{backend: BackendLlama, msg: err.Error()}
	}
	return out, nil
}

func (a *llamaAdapter) Ping(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.model == nil {
		return ErrDependencyUnavailable("llama model not loaded")
	}
	return nil
}

func (a *llamaAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.model != nil {
		a.model.Free()
		a.model = nil
	}
	return nil
}
