// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MKhiriev/go-finance-tracker/internal/logger"
	"golang.org/x/time/rate"
)

const defaultLimiterCleanup = 5 * time.Minute

// clientLimiter is the token bucket of one client IP and the last time it
// was used.
type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// rateLimiter throttles requests per client IP. Idle buckets are dropped by
// a background loop until Stop is called.
type rateLimiter struct {
	limit           rate.Limit
	burst           int
	retryAfter      int
	cleanupInterval time.Duration

	mu       sync.Mutex
	limiters map[string]*clientLimiter

	stopOnce sync.Once
	stopCh   chan struct{}
}

// newRateLimiter allows perMinute requests per minute per IP with the given
// burst. A non-positive perMinute disables limiting.
func newRateLimiter(perMinute float64, burst int, cleanupInterval time.Duration) *rateLimiter {
	limit, retryAfter := rate.Inf, 1
	if perMinute > 0 {
		limit = rate.Limit(perMinute / 60)
		retryAfter = max(1, int(math.Ceil(60/perMinute)))
	}
	if burst < 1 {
		burst = 1
	}

	rl := &rateLimiter{
		limit:           limit,
		burst:           burst,
		retryAfter:      retryAfter,
		cleanupInterval: cleanupInterval,
		limiters:        make(map[string]*clientLimiter),
		stopCh:          make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (rl *rateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		if !rl.get(ip).Allow() {
			logger.FromRequest(r).Warn().Str("ip", ip).Msg("rate limit exceeded")
			rl.writeLimited(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// size returns the number of tracked clients.
func (rl *rateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

func (rl *rateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.limiters[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[ip] = cl
	}
	cl.lastAccess = time.Now()

	return cl.limiter
}

func (rl *rateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup drops clients idle for more than two cleanup intervals.
func (rl *rateLimiter) cleanup(now time.Time) {
	ttl := rl.cleanupInterval * 2

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, cl := range rl.limiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.limiters, ip)
		}
	}
}

// writeLimited answers 429 with a Retry-After estimate of the time needed
// to refill one token.
func (rl *rateLimiter) writeLimited(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfter))
	writeMessage(w, r, errRateLimited, http.StatusTooManyRequests, "Too many requests. Please try again later.")
}

// clientIP returns the host part of RemoteAddr. middleware.RealIP has already
// replaced it with the forwarded address when one was present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
