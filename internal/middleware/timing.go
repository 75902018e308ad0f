package middleware

import (
	"log"
	"net/http"
	"time"

	"scout/internal/config"
)

// Timing measures wall-clock per request and logs at WARN when it
// exceeds slow_threshold_ms, per spec.md §4.6.
func Timing(cfg *config.Config, next http.Handler) http.Handler {
	threshold := time.Duration(cfg.SlowThresholdMs) * time.Millisecond

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if elapsed := time.Since(start); elapsed > threshold {
			log.Printf("[middleware] WARN slow request: %s %s took %s (threshold %s)",
				r.Method, r.URL.Path, elapsed, threshold)
		}
	})
}

// statusRecorder captures the response status code a handler wrote,
// since http.ResponseWriter otherwise only exposes it to the handler
// itself.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
