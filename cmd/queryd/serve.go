package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"queryd/internal/config"
	"queryd/internal/httpapi"
	"queryd/internal/inference"
)

const shutdownTimeout = 5 * time.Second

// serve runs the HTTP server until ctx is done, then shuts it down.
func serve(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	adapter, err := inference.New(inference.Config{
		Backend:        cfg.Backend,
		BaseURL:        cfg.RuntimeURL,
		Model:          cfg.Model,
		APIKey:         cfg.APIKey,
		ModelPath:      cfg.ModelPath,
		LlamaCtx:       cfg.LlamaCtx,
		LlamaThreads:   cfg.LlamaThreads,
		RequestTimeout: cfg.RequestTimeout(),
		Logger:         log.With().Str("component", "inference").Logger(),
	})
	if err != nil {
		return fmt.Errorf("init inference: %w", err)
	}
	defer func() {
		if err := adapter.Close(); err != nil {
			log.Warn().Err(err).Msg("close inference adapter")
		}
	}()

	// In-flight model calls are canceled before the server drains.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	httpapi.SetLogger(log.With().Str("component", "http").Logger())
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetCORSOptions(cfg.CORS(), cfg.CORSOrigins, nil, nil)
	httpapi.SetPageInfo("queryd", cfg.Model)
	httpapi.SetBaseContext(baseCtx)

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	srv := &http.Server{
		Handler:           httpapi.NewMux(adapter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	log.Info().
		Str("addr", ln.Addr().String()).
		Str("backend", cfg.Backend).
		Str("model", cfg.Model).
		Dur("request_timeout", cfg.RequestTimeout()).
		Msg("queryd listening")

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	cancelBase()
	shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	return nil
}
