package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Logging emits one line per request summarising method, target,
// duration, and outcome, per spec.md §4.6. It is the innermost layer in
// the chain, so its duration is the closest measurement to the handler's
// own work. Each completion line carries a UUIDv7 request ID; the
// slow-request warning from Timing is logged separately and does not
// carry that ID.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.Must(uuid.NewV7()).String()
		rec := newStatusRecorder(w)
		start := time.Now()

		next.ServeHTTP(rec, r)

		log.Printf("[request] id=%s %s %s status=%d duration=%s",
			reqID, r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
