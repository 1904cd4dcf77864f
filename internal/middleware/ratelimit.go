package middleware

import (
	"net/http"
	"sync"
	"time"
)

// RateLimiter throttles the unauthenticated auth endpoints per client IP:
// up to limit requests per fixed window, counted from the first request of
// the window.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*window
	limit   int
	period  time.Duration
}

type window struct {
	start time.Time
	count int
}

func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*window),
		limit:   limit,
		period:  period,
	}
	go rl.sweep()
	return rl
}

// sweep drops elapsed windows so one-off clients don't accumulate.
func (rl *RateLimiter) sweep() {
	for range time.Tick(rl.period) {
		rl.mu.Lock()
		for ip, w := range rl.buckets {
			if time.Since(w.start) > rl.period {
				delete(rl.buckets, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// allow counts one request for ip and reports whether it fits the current
// window.
func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.buckets[ip]
	if !ok || time.Since(w.start) > rl.period {
		rl.buckets[ip] = &window{start: time.Now(), count: 1}
		return true
	}
	w.count++
	return w.count <= rl.limit
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(r.RemoteAddr) {
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
