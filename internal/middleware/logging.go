// Package middleware provides HTTP middleware shared across routes.
package middleware

import (
	"net/http"
	"time"

	"show-status/internal/common/logging"
)

// responseWriter captures the status code written by a handler.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// RequestLogging logs one line per request with method, path, status and
// duration. Server errors log at error level, client errors at warn.
func RequestLogging(logger logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			fields := []logging.Field{
				{Key: "method", Value: r.Method},
				{Key: "path", Value: r.URL.Path},
				{Key: "status", Value: wrapped.status},
				{Key: "duration", Value: time.Since(start).String()},
			}

			switch {
			case wrapped.status >= 500:
				logger.Error("request failed", nil, fields...)
			case wrapped.status >= 400:
				logger.Warn("request rejected", fields...)
			default:
				logger.Info("request handled", fields...)
			}
		})
	}
}
