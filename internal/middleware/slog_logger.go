package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// quietPaths are logged at debug; load balancers poll them constantly.
var quietPaths = map[string]bool{
	"/healthz":      true,
	"/openapi.yaml": true,
}

// NewSlogLogger returns a middleware that writes one structured line per
// request: method, path, status, bytes, duration and the request ID set
// by chi's RequestID middleware. Wire it after chimiddleware.RequestID.
//
// Server errors log at error and client errors at warn. Health probes and
// websocket upgrades log at debug.
func NewSlogLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				// Hijacked (websocket) or nothing written.
				status = http.StatusOK
			}
			log.Log(r.Context(), requestLevel(r, status), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", chimiddleware.GetReqID(r.Context()),
			)
		})
	}
}

func requestLevel(r *http.Request, status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	case quietPaths[r.URL.Path], strings.EqualFold(r.Header.Get("Upgrade"), "websocket"):
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
