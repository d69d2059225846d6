package inference

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "queryd",
			Subsystem: "inference",
			Name:      "requests_total",
			Help:      "Model calls by backend and result",
		},
		[]string{"backend", "result"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "queryd",
			Subsystem: "inference",
			Name:      "request_duration_seconds",
			Help:      "Duration of model calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 14),
		},
		[]string{"backend"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration)
}

// instrumented applies the per-call timeout and records every call.
type instrumented struct {
	next    Adapter
	backend string
	model   string
	timeout time.Duration
	log     zerolog.Logger
}

func (i *instrumented) Ask(ctx context.Context, text string) (string, error) {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}
	start := time.Now()
	out, err := i.next.Ask(ctx, text)
	dur := time.Since(start)

	result := resultLabel(err)
	requestsTotal.WithLabelValues(i.backend, result).Inc()
	requestDuration.WithLabelValues(i.backend).Observe(dur.Seconds())

	ev := i.log.Debug()
	if err != nil && result == "error" {
		ev = i.log.Warn()
	}
	ev.Str("backend", i.backend).
		Str("model", i.model).
		Str("result", result).
		Int("input_len", len(text)).
		Int("output_len", len(out)).
		Dur("dur", dur).
		Err(err).
		Msg("model call")
	return out, err
}

func (i *instrumented) Ping(ctx context.Context) error { return i.next.Ping(ctx) }

func (i *instrumented) Close() error { return i.next.Close() }

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case IsDependencyUnavailable(err):
		return "unavailable"
	default:
		return "error"
	}
}
