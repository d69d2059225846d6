package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"queryd/internal/httpapi"
	"queryd/internal/inference"
)

// fakeRuntime mimics the parts of the Ollama REST API queryd uses. Each
// generate call returns a distinct reply so caching would be visible.
type fakeRuntime struct {
	srv   *httptest.Server
	calls atomic.Int32

	mu      sync.Mutex
	prompts []string
	models  []string

	// delay holds generate until the request is done or the delay passes.
	delay atomic.Int64
	// missingModel makes generate answer 404 like Ollama does for unknown models.
	missingModel atomic.Bool
}

func newFakeRuntime(t *testing.T) *fakeRuntime {
	t.Helper()
	f := &fakeRuntime{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		n := f.calls.Add(1)
		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
			Stream bool   `json:"stream"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Stream {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"bad request"}`))
			return
		}
		f.mu.Lock()
		f.prompts = append(f.prompts, req.Prompt)
		f.models = append(f.models, req.Model)
		f.mu.Unlock()
		if d := time.Duration(f.delay.Load()); d > 0 {
			select {
			case <-r.Context().Done():
				return
			case <-time.After(d):
			}
		}
		w.Header().Set("Content-Type", "application/json")
		if f.missingModel.Load() {
			w.WriteHeader(http.StatusNotFound)
			_, _ = fmt.Fprintf(w, `{"error":"model %q not found, try pulling it first"}`, req.Model)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":    req.Model,
			"response": fmt.Sprintf("reply #%d to %q", n, req.Prompt),
			"done":     true,
		})
	})
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"models":[{"name":"gemma:2b"}]}`))
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeRuntime) lastPrompt() (string, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return "<none>", "<none>"
	}
	return f.prompts[len(f.prompts)-1], f.models[len(f.models)-1]
}

// newServer wires a real inference adapter into the HTTP layer.
func newServer(t *testing.T, cfg inference.Config) *httptest.Server {
	t.Helper()
	adapter, err := inference.New(cfg)
	if err != nil {
		t.Fatalf("inference.New: %v", err)
	}
	t.Cleanup(func() { _ = adapter.Close() })
	srv := httptest.NewServer(httpapi.NewMux(adapter))
	t.Cleanup(srv.Close)
	return srv
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}
