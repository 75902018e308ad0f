package middleware

import (
	"errors"
	"log"
	"net/http"

	"scout/internal/scerr"
)

// Recover catches a panic escaping the inner handler and turns it into a
// 500 instead of taking the HTTP server down. mcp-go's own server.
// WithRecovery() guards tool dispatch; this is the same guarantee one
// layer further out, for anything outside a tool call (routing,
// middleware bugs) that would otherwise crash the listener goroutine.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[middleware] recovered panic serving %s: %v", r.URL.Path, rec)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// FormatError renders err the way a tool handler's reply text should
// read: an scerr.Error and any other error alike are rendered with their
// own Error() text, and a nil error renders as "".
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	var se *scerr.Error
	if errors.As(err, &se) {
		return se.Error()
	}
	return err.Error()
}

// StatusFor maps an scerr.Kind to the HTTP status middleware would use
// if it needed to answer outside the MCP envelope (the health check and
// any transport-level failure before a tool call is dispatched).
func StatusFor(err error) int {
	var se *scerr.Error
	if !errors.As(err, &se) {
		return http.StatusInternalServerError
	}
	switch se.Kind {
	case scerr.KindValidation:
		return http.StatusBadRequest
	case scerr.KindAuth:
		return http.StatusUnauthorized
	case scerr.KindRateLimit:
		return http.StatusTooManyRequests
	case scerr.KindConfig:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}
