package inference

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestResultLabel(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{context.DeadlineExceeded, "timeout"},
		{fmt.Errorf("wrapped: %w", context.Canceled), "canceled"},
		{ErrDependencyUnavailable("x"), "unavailable"},
		{errors.New("boom"), "error"},
	}
	for _, c := range cases {
		if got := resultLabel(c.err); got != c.want {
			t.Fatalf("resultLabel(%v) = %q, want %q", c.err, got, c.want)
		}
	}
}

func TestInstrumented_CountsCalls(t *testing.T) {
	ok := &instrumented{next: &fakeAdapter{out: "hi"}, backend: "metrics-test"}
	bad := &instrumented{next: &fakeAdapter{err: errors.New("boom")}, backend: "metrics-test"}

	okBefore := testutil.ToFloat64(requestsTotal.WithLabelValues("metrics-test", "ok"))
	errBefore := testutil.ToFloat64(requestsTotal.WithLabelValues("metrics-test", "error"))

	if out, err := ok.Ask(context.Background(), "x"); err != nil || out != "hi" {
		t.Fatalf("out=%q err=%v", out, err)
	}
	if _, err := bad.Ask(context.Background(), "x"); err == nil {
		t.Fatalf("expected error")
	}

	if got := testutil.ToFloat64(requestsTotal.WithLabelValues("metrics-test", "ok")); got != okBefore+1 {
		t.Fatalf("ok counter = %v, want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(requestsTotal.WithLabelValues("metrics-test", "error")); got != errBefore+1 {
		t.Fatalf("error counter = %v, want %v", got, errBefore+1)
	}
}
