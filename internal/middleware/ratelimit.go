package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP with a token bucket.
// Clients idle for longer than the idle window are forgotten.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	every   rate.Limit
	burst   int
	idle    time.Duration
	now     func() time.Time
}

// NewRateLimiter allows perMinute requests per client on average, with bursts
// up to burst.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		every:   rate.Every(time.Minute / time.Duration(max(perMinute, 1))),
		burst:   max(burst, 1),
		idle:    30 * time.Minute,
		now:     time.Now,
	}
}

// Handler rejects over-limit requests with 429. Wire it after
// chimiddleware.RealIP so RemoteAddr holds the client address.
func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.clients[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.every, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now

	for key, other := range l.clients {
		if now.Sub(other.lastSeen) > l.idle {
			delete(l.clients, key)
		}
	}
	return c.limiter.AllowN(now, 1)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
