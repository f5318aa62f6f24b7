package httpx

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/spps-sekolah/spps-api/internal/errors"
)

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*ipBucket
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
	lastGC   time.Time
	trustXFF bool
}

type ipBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimitConfig configures an IPRateLimiter.
type RateLimitConfig struct {
	// PerMinute is the sustained number of requests allowed per client.
	PerMinute int
	Burst     int
	// TrustForwardedFor keys clients by the first X-Forwarded-For entry. Enable only behind a proxy.
	TrustForwardedFor bool
	Now               func() time.Time
}

// NewIPRateLimiter creates a limiter. Non-positive values fall back to 10 per minute with a burst of 5.
func NewIPRateLimiter(cfg RateLimitConfig) *IPRateLimiter {
	perMinute := cfg.PerMinute
	if perMinute <= 0 {
		perMinute = 10
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 5
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &IPRateLimiter{
		buckets:  make(map[string]*ipBucket),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
		ttl:      loginLimiterTTL,
		now:      now,
		lastGC:   now(),
		trustXFF: cfg.TrustForwardedFor,
	}
}

// Allow consumes one token for ip.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastGC) > l.ttl {
		for k, b := range l.buckets {
			if now.Sub(b.seen) > l.ttl {
				delete(l.buckets, k)
			}
		}
		l.lastGC = now
	}

	b, ok := l.buckets[ip]
	if !ok {
		b = &ipBucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[ip] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}

// Middleware rejects requests over the limit with 429.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(l.clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			WriteError(w, ErrorParams{
				Code:    http.StatusTooManyRequests,
				ErrCode: string(apperrors.ErrCodeRateLimited),
				Err:     apperrors.RateLimited("Terlalu banyak percobaan login. Coba lagi nanti."),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *IPRateLimiter) clientIP(r *http.Request) string {
	if l.trustXFF {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			return strings.TrimSpace(first)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
