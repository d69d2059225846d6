package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"queryd/internal/inference"
	"queryd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Ask(ctx context.Context, text string) (string, error)
	Ping(ctx context.Context) error
}

const readyTimeout = 2 * time.Second

type handlers struct {
	svc Service
}

func NewMux(svc Service) http.Handler {
	h := &handlers{svc: svc}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(middleware.Compress(5))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}))
	}

	r.Get("/", indexHandler)
	r.Handle("/static/*", staticHandler())
	r.Post("/api/query", h.query)
	r.Get("/healthz", h.healthz)
	r.Get("/readyz", h.readyz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	MountSwagger(r)

	return r
}

// query forwards the input text to the model and wraps its output.
//
// @Summary      Ask the model
// @Description  Sends the input text to the configured model and returns its raw completion. A missing input is sent as an empty string.
// @Tags         query
// @Accept       json
// @Produce      json
// @Param        request  body      types.QueryRequest  true  "Query"
// @Success      200      {object}  types.QueryResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      415      {object}  types.ErrorResponse
// @Failure      500      {object}  types.ErrorResponse
// @Failure      503      {object}  types.ErrorResponse
// @Router       /api/query [post]
func (h *handlers) query(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil || !isJSONObject(raw) {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	var req types.QueryRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	log := requestLogger(r)
	start := time.Now()
	log.Info().Str("path", r.URL.Path).Int("input_len", len(req.Input)).Msg("query start")
	log.Debug().Str("input", req.Input).Msg("query input")

	ctx, cancel := joinContexts(r.Context(), serverBaseCtx)
	defer cancel()
	out, err := h.svc.Ask(ctx, req.Input)
	if err != nil {
		if r.Context().Err() != nil {
			log.Info().Dur("dur", time.Since(start)).Msg("query abandoned by client")
			return
		}
		status := statusFor(err)
		writeJSONError(w, status, err.Error())
		ev := log.Error().Int("status", status).Dur("dur", time.Since(start)).Err(err)
		if st, ok := inference.RuntimeStatus(err); ok {
			ev = ev.Int("runtime_status", st)
		}
		ev.Msg("query end")
		return
	}
	writeJSON(w, http.StatusOK, types.QueryResponse{Response: out})
	log.Info().Int("status", http.StatusOK).Int("output_len", len(out)).Dur("dur", time.Since(start)).Msg("query end")
}

// healthz reports process liveness.
//
// @Summary  Liveness probe
// @Tags     health
// @Produce  plain
// @Success  200  {string}  string  "ok"
// @Router   /healthz [get]
func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// readyz reports whether the model runtime answers.
//
// @Summary  Readiness probe
// @Tags     health
// @Produce  plain
// @Success  200  {string}  string  "ready"
// @Failure  503  {string}  string  "unavailable"
// @Router   /readyz [get]
func (h *handlers) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()
	if err := h.svc.Ping(ctx); err != nil {
		log := requestLogger(r)
		log.Debug().Err(err).Msg("runtime not ready")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// isJSONObject reports whether raw holds a JSON object. null, arrays and
// scalars are rejected.
func isJSONObject(raw json.RawMessage) bool {
	b := bytes.TrimSpace(raw)
	return len(b) > 0 && b[0] == '{'
}
