package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// fakeOllama serves /api/generate by echoing the prompt and /api/tags with
// an empty model list. Calls counts generate requests.
type fakeOllama struct {
	srv       *httptest.Server
	calls     atomic.Int32
	lastModel atomic.Value
}

func newFakeOllama(t *testing.T) *fakeOllama {
	t.Helper()
	f := &fakeOllama{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		var req ollamaGenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"bad request"}`, http.StatusBadRequest)
			return
		}
		f.lastModel.Store(req.Model)
		if req.Stream {
			http.Error(w, `{"error":"stream not expected"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ollamaGenerateResponse{Model: req.Model, Response: "echo: " + req.Prompt, Done: true, DoneReason: "stop"})
	})
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"models":[]}`))
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

// testCtx returns a context with a short timeout, canceled on test cleanup.
func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return c
}

// fakeAdapter is an in-memory Adapter for wrapper tests.
type fakeAdapter struct {
	out    string
	err    error
	block  bool
	closed bool
}

func (f *fakeAdapter) Ask(ctx context.Context, text string) (string, error) {
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.out, f.err
}

func (f *fakeAdapter) Ping(context.Context) error { return f.err }

func (f *fakeAdapter) Close() error { f.closed = true; return nil }
