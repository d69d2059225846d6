package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// ollamaAdapter talks to a running Ollama server over its native REST API.
type ollamaAdapter struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaAdapter constructs an adapter bound to one model on an Ollama server.
func NewOllamaAdapter(baseURL, model string, connectTimeout time.Duration) Adapter {
	return &ollamaAdapter{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: newHTTPClient(connectTimeout),
	}
}

// newHTTPClient returns a client without an overall Timeout: every call
// carries its deadline on the request context instead.
func newHTTPClient(connectTimeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: tr}
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Model      string `json:"model"`
	Response   string `json:"response"`
	Done       bool   `json:"done"`
	DoneReason string `json:"done_reason"`
}

type ollamaErrorResponse struct {
	Error string `json:"error"`
}

func (a *ollamaAdapter) Ask(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(ollamaGenerateRequest{Model: a.model, Prompt: text, Stream: false})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", ollamaHTTPError(resp)
	}
	var out ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	return out.Response, nil
}

// Ping lists local models; any 2xx means the runtime is up.
func (a *ollamaAdapter) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ollama ping: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &runtimeError{backend: BackendOllama, status: resp.StatusCode, msg: "ping failed"}
	}
	return nil
}

func (a *ollamaAdapter) Close() error {
	a.httpClient.CloseIdleConnections()
	return nil
}

// ollamaHTTPError extracts Ollama's {"error": "..."} body when present.
func ollamaHTTPError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(b))
	var e ollamaErrorResponse
	if json.Unmarshal(b, &e) == nil && e.Error != "" {
		msg = e.Error
	}
	if msg == "" {
		msg = resp.Status
	}
	return &runtimeError{backend: BackendOllama, status: resp.StatusCode, msg: msg}
}
