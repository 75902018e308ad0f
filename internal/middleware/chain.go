package middleware

import (
	"net/http"

	"scout/internal/config"
)

// Chain wraps handler in the full stack named by spec.md §4.6, outermost
// to innermost: Auth → RateLimit → Recover → Timing → Logging → handler.
// Recover stands in for spec.md's "Error" layer — the only uncaught
// exception reaching this far out is a genuine bug, not a domain error
// (those are already converted to reply text inside the tool adapters
// per §7). healthPath is exempted from Auth and RateLimit, never from
// Recover/Timing/Logging.
func Chain(cfg *config.Config, healthPath string, handler http.Handler) http.Handler {
	wrapped := Logging(handler)
	wrapped = Timing(cfg, wrapped)
	wrapped = Recover(wrapped)
	wrapped = RateLimit(cfg, healthPath, wrapped)
	wrapped = Auth(cfg, healthPath, wrapped)
	return wrapped
}
