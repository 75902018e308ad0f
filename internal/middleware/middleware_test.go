package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"scout/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthPassThroughWhenNoAPIKeys(t *testing.T) {
	cfg := &config.Config{APIKeys: map[string]struct{}{}}
	h := Auth(cfg, "/health", okHandler())

	req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected pass-through with no configured keys, got %d", rr.Code)
	}
}

func TestAuthRejectsMissingKey(t *testing.T) {
	cfg := &config.Config{APIKeys: map[string]struct{}{"secret": {}}}
	h := Auth(cfg, "/health", okHandler())

	req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestAuthAcceptsValidKey(t *testing.T) {
	cfg := &config.Config{APIKeys: map[string]struct{}{"secret": {}}}
	h := Auth(cfg, "/health", okHandler())

	req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	req.Header.Set(apiKeyHeader, "secret")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for a valid key, got %d", rr.Code)
	}
}

func TestAuthBypassesHealthPath(t *testing.T) {
	cfg := &config.Config{APIKeys: map[string]struct{}{"secret": {}}}
	h := Auth(cfg, "/health", okHandler())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected health path to bypass auth, got %d", rr.Code)
	}
}

func TestRateLimitAllowsBurstThenRejects(t *testing.T) {
	cfg := &config.Config{RateLimitPerMinute: 60, RateLimitBurst: 10}
	h := RateLimit(cfg, "/health", okHandler())

	client := "203.0.113.5:12345"
	var lastCode int
	for i := 0; i < 11; i++ {
		req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
		req.RemoteAddr = client
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		lastCode = rr.Code
		if i < 10 && rr.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 within burst, got %d", i, rr.Code)
		}
	}
	if lastCode != http.StatusTooManyRequests {
		t.Fatalf("expected the 11th request to be rate limited, got %d", lastCode)
	}
}

func TestRateLimitSetsRetryAfter(t *testing.T) {
	cfg := &config.Config{RateLimitPerMinute: 60, RateLimitBurst: 1}
	h := RateLimit(cfg, "/health", okHandler())

	client := "203.0.113.9:1"
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
		req.RemoteAddr = client
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if i == 1 {
			if rr.Code != http.StatusTooManyRequests {
				t.Fatalf("expected 429 on second request, got %d", rr.Code)
			}
			if rr.Header().Get("Retry-After") == "" {
				t.Error("expected Retry-After header on 429")
			}
		}
	}
}

func TestRateLimitSeparatesClientsByIP(t *testing.T) {
	cfg := &config.Config{RateLimitPerMinute: 60, RateLimitBurst: 1}
	h := RateLimit(cfg, "/health", okHandler())

	for _, client := range []string{"203.0.113.1:1", "203.0.113.2:1"} {
		req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
		req.RemoteAddr = client
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected first request from %s to succeed, got %d", client, rr.Code)
		}
	}
}

func TestRateLimitBypassesHealthPath(t *testing.T) {
	cfg := &config.Config{RateLimitPerMinute: 60, RateLimitBurst: 1}
	h := RateLimit(cfg, "/health", okHandler())

	client := "203.0.113.1:1"
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = client
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected health path never to be rate limited, got %d on iteration %d", rr.Code, i)
		}
	}
}

func TestRateLimitDisabledWhenZero(t *testing.T) {
	cfg := &config.Config{RateLimitPerMinute: 0, RateLimitBurst: 1}
	h := RateLimit(cfg, "/health", okHandler())

	client := "203.0.113.1:1"
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
		req.RemoteAddr = client
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected pass-through with rate_limit_per_minute=0, got %d", rr.Code)
		}
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	req.RemoteAddr = "10.0.0.1:9999"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	if got := clientIP(req); got != "203.0.113.7" {
		t.Fatalf("expected first hop 203.0.113.7, got %q", got)
	}
}

func TestConstantTimeAuthDoesNotShortCircuit(t *testing.T) {
	// anyKeyMatches must check every configured key rather than returning
	// on the first mismatch, so timing can't reveal which key (if any) is
	// closest to the supplied value. This test asserts the functional
	// property (all-keys-checked correctness for a multi-key set), which
	// is what makes the constant-time guarantee meaningful here; a
	// statistical timing test belongs in a benchmark, not a unit test.
	keys := map[string]struct{}{"alpha": {}, "beta": {}, "gamma": {}}
	if !anyKeyMatches(keys, "gamma") {
		t.Fatal("expected a match for gamma wherever it falls in the key set's iteration order")
	}
	if anyKeyMatches(keys, "delta") {
		t.Fatal("expected no match for an unconfigured key")
	}
}

func TestTimingLogsSlowRequestsOnly(t *testing.T) {
	cfg := &config.Config{SlowThresholdMs: 5}
	slow := Timing(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(10 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	rr := httptest.NewRecorder()
	slow.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected handler to still run to completion, got %d", rr.Code)
	}
}

func TestRecoverConvertsPanicToFiveHundred(t *testing.T) {
	h := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after recovered panic, got %d", rr.Code)
	}
}

func TestChainOrdersAuthOutermost(t *testing.T) {
	cfg := &config.Config{APIKeys: map[string]struct{}{"secret": {}}, RateLimitPerMinute: 0, SlowThresholdMs: 1000}
	h := Chain(cfg, "/health", okHandler())

	req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected auth to reject before reaching the handler, got %d", rr.Code)
	}
}
