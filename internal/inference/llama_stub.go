//go:build !llama

package inference

import "context"

const errLlamaNotBuilt = "llama support not built (missing 'llama' build tag)"

// llamaAdapter keeps default builds CGO-free. The server still starts so the
// index page and health endpoints work; queries answer 503.
type llamaAdapter struct{}

func NewLlamaAdapter(modelPath string, ctxSize, threads int) (Adapter, error) {
	return llamaAdapter{}, nil
}

func (llamaAdapter) Ask(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "", ErrDependencyUnavailable(errLlamaNotBuilt)
}

func (llamaAdapter) Ping(context.Context) error { return ErrDependencyUnavailable(errLlamaNotBuilt) }

func (llamaAdapter) Close() error { return nil }
