package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is the HTTP layer's logger. The zero Logger discards everything.
var zlog zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = l }

// parseLevel maps a per-request override to a zerolog level. "1" is a
// shorthand for debug; unknown values fall back to info.
func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "disabled":
		return zerolog.Disabled
	case "1", "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// requestLogger returns the HTTP logger tagged with the request id. The
// ?log= query parameter or X-Log-Level header override its level for this
// request only.
func requestLogger(r *http.Request) zerolog.Logger {
	l := zlog
	if v := r.URL.Query().Get("log"); v != "" {
		l = l.Level(parseLevel(v))
	} else if v := r.Header.Get("X-Log-Level"); v != "" {
		l = l.Level(parseLevel(v))
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		l = l.With().Str("request_id", rid).Logger()
	}
	return l
}
