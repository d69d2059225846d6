package inference

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// openAIAdapter uses an OpenAI-compatible chat completions endpoint. Ollama
// serves one under /v1.
type openAIAdapter struct {
	client openai.Client
	model  string
	closer func()
}

// NewOpenAIAdapter constructs an adapter for an OpenAI-compatible server.
// baseURL may be given with or without the trailing /v1.
func NewOpenAIAdapter(baseURL, apiKey, model string, connectTimeout time.Duration) Adapter {
	hc := newHTTPClient(connectTimeout)
	opts := []option.RequestOption{
		option.WithBaseURL(openAIBaseURL(baseURL)),
		option.WithHTTPClient(hc),
		option.WithMaxRetries(0),
	}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	return &openAIAdapter{
		client: openai.NewClient(opts...),
		model:  model,
		closer: hc.CloseIdleConnections,
	}
}

func openAIBaseURL(u string) string {
	u = strings.TrimRight(u, "/")
	if !strings.HasSuffix(u, "/v1") {
		u += "/v1"
	}
	return u + "/"
}

func (a *openAIAdapter) Ask(ctx context.Context, text string) (string, error) {
	comp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(text)},
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", openAIError(err)
	}
	if len(comp.Choices) == 0 {
		return "", &runtimeError{backend: BackendOpenAI, msg: "completion has no choices"}
	}
	return comp.Choices[0].Message.Content, nil
}

func (a *openAIAdapter) Ping(ctx context.Context) error {
	if _, err := a.client.Models.List(ctx); err != nil {
		return openAIError(err)
	}
	return nil
}

func (a *openAIAdapter) Close() error {
	a.closer()
	return nil
}

func openAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.StatusCode)
		}
		return &runtimeError{backend: BackendOpenAI, status: apiErr.StatusCode, msg: msg}
	}
	return fmt.Errorf("openai request: %w", err)
}
