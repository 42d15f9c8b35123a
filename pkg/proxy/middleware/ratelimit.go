package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"estatechat/chatrelay/pkg/proxy"
)

// limiterIdleTTL is how long a client's limiter survives without traffic.
const limiterIdleTTL = 10 * time.Minute

// RateLimitConfig contains configuration for the per-client rate limiter.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client. Zero or less
	// disables rate limiting.
	RequestsPerSecond float64

	// Burst is the number of requests a client may make at once.
	Burst int
}

// ClientLimiter holds one token bucket per client address.
type ClientLimiter struct {
	limit rate.Limit
	burst int

	limiters *sync.Map // map[string]*clientEntry

	mu        sync.Mutex
	lastPrune time.Time
	now       func() time.Time
}

type clientEntry struct {
	limiter *rate.Limiter

	mu       sync.Mutex
	lastSeen time.Time
	evicted  bool
}

// touch records activity at now. It returns false when the entry has been
// evicted and must not be used.
func (e *clientEntry) touch(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.evicted {
		return false
	}
	e.lastSeen = now
	return true
}

// NewClientLimiter creates a limiter for the given configuration.
func NewClientLimiter(cfg RateLimitConfig) *ClientLimiter {
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &ClientLimiter{
		limit:     rate.Limit(cfg.RequestsPerSecond),
		burst:     burst,
		limiters:  &sync.Map{},
		lastPrune: time.Now(),
		now:       time.Now,
	}
}

// Allow reports whether the client identified by key may proceed now.
func (cl *ClientLimiter) Allow(key string) bool {
	now := cl.now()
	cl.maybePrune(now)

	for {
		entry := cl.getOrCreate(key, now)
		if entry.touch(now) {
			return entry.limiter.AllowN(now, 1)
		}
		// Pruned between load and touch; the map no longer holds it.
	}
}

// Len returns the number of tracked clients.
func (cl *ClientLimiter) Len() int {
	n := 0
	cl.limiters.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (cl *ClientLimiter) getOrCreate(key string, now time.Time) *clientEntry {
	if entry, ok := cl.limiters.Load(key); ok {
		return entry.(*clientEntry)
	}

	newEntry := &clientEntry{limiter: rate.NewLimiter(cl.limit, cl.burst), lastSeen: now}

	// Another goroutine may have stored one first.
	actual, _ := cl.limiters.LoadOrStore(key, newEntry)
	return actual.(*clientEntry)
}

// maybePrune drops clients idle for longer than limiterIdleTTL, at most once
// per TTL.
func (cl *ClientLimiter) maybePrune(now time.Time) {
	cl.mu.Lock()
	if now.Sub(cl.lastPrune) < limiterIdleTTL {
		cl.mu.Unlock()
		return
	}
	cl.lastPrune = now
	cl.mu.Unlock()

	cl.limiters.Range(func(key, value any) bool {
		entry := value.(*clientEntry)
		entry.mu.Lock()
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			entry.evicted = true
			cl.limiters.CompareAndDelete(key, entry)
		}
		entry.mu.Unlock()
		return true
	})
}

// RateLimitMiddleware rejects requests from clients that exceed their token
// bucket with 429 and the uniform error body. Clients are keyed by the host
// part of r.RemoteAddr, which chi's RealIP middleware rewrites from
// X-Forwarded-For or X-Real-IP when present.
//
// When RequestsPerSecond is zero or less the middleware is a pass-through.
// onReject, if not nil, is called for every rejected request.
func RateLimitMiddleware(cfg RateLimitConfig, msgs *proxy.Messages, onReject func(context.Context)) func(http.Handler) http.Handler {
	if cfg.RequestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	limiter := NewClientLimiter(cfg)
	retryAfter := strconv.Itoa(int(1/cfg.RequestsPerSecond) + 1)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientKey(r)
			if limiter.Allow(client) {
				next.ServeHTTP(w, r)
				return
			}

			slog.WarnContext(r.Context(), "rate limit exceeded",
				"client", client,
				"path", r.URL.Path,
			)
			if onReject != nil {
				onReject(r.Context())
			}

			w.Header().Set("Retry-After", retryAfter)
			_ = proxy.WriteReply(w, proxy.RateLimitedReply(msgs))
		})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
