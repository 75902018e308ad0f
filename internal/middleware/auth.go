package middleware

import (
	"crypto/subtle"
	"net/http"

	"scout/internal/config"
)

const apiKeyHeader = "X-API-Key"

// Auth rejects requests carrying no configured API key with 401, unless
// api_keys is empty (auth disabled) or the request is for healthPath.
// Each candidate key is compared in constant time so a caller probing
// for a valid key can't learn anything from response timing.
func Auth(cfg *config.Config, healthPath string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == healthPath || len(cfg.APIKeys) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		supplied := r.Header.Get(apiKeyHeader)
		if !anyKeyMatches(cfg.APIKeys, supplied) {
			http.Error(w, "invalid or missing API key", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func anyKeyMatches(keys map[string]struct{}, supplied string) bool {
	suppliedBytes := []byte(supplied)
	matched := false
	for key := range keys {
		if subtle.ConstantTimeCompare([]byte(key), suppliedBytes) == 1 {
			matched = true
		}
	}
	return matched
}
