package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"scout/internal/config"
)

// clientBuckets holds one token bucket per client IP, created lazily and
// kept for the life of the process — bucket count is bounded by the
// number of distinct clients that have ever connected, the same
// tradeoff the token-bucket limiter in the pack's tunnel server makes.
type clientBuckets struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// RateLimit enforces rate_limit_per_minute/rate_limit_burst per client
// IP, bypassing healthPath and passing everything through when the
// limit is configured as 0 (disabled).
func RateLimit(cfg *config.Config, healthPath string, next http.Handler) http.Handler {
	if cfg.RateLimitPerMinute == 0 {
		return next
	}

	buckets := &clientBuckets{limiters: make(map[string]*rate.Limiter)}
	perSecond := rate.Limit(float64(cfg.RateLimitPerMinute) / 60)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == healthPath {
			next.ServeHTTP(w, r)
			return
		}

		limiter := buckets.limiterFor(clientIP(r), perSecond, cfg.RateLimitBurst)
		reservation := limiter.Reserve()
		if delay := reservation.Delay(); !reservation.OK() || delay > 0 {
			reservation.Cancel()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *clientBuckets) limiterFor(ip string, perSecond rate.Limit, burst int) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.limiters[ip]
	if !ok {
		l = rate.NewLimiter(perSecond, burst)
		b.limiters[ip] = l
	}
	return l
}

// clientIP prefers the first hop of X-Forwarded-For (the immediate
// client, not any further proxy in the chain) and falls back to the
// TCP peer address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
