// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultRateLimitPerHour is the per-client request budget.
const DefaultRateLimitPerHour = 50

// sweepInterval bounds how often idle client buckets are dropped.
const sweepInterval = time.Minute

// ============================================================================
// Rate Limiter
// ============================================================================

// RateLimiter keeps one token bucket per client. Each bucket holds perHour
// tokens and refills one token every hour/perHour. Safe for concurrent use.
type RateLimiter struct {
	mu        sync.Mutex
	perHour   int
	clients   map[string]*clientBucket
	clock     func() time.Time
	lastSweep time.Time
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing perHour requests per client.
// Values below 1 use DefaultRateLimitPerHour.
func NewRateLimiter(perHour int) *RateLimiter {
	if perHour < 1 {
		perHour = DefaultRateLimitPerHour
	}
	return &RateLimiter{
		perHour: perHour,
		clients: make(map[string]*clientBucket),
		clock:   time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (rl *RateLimiter) WithClock(clock func() time.Time) *RateLimiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.clock = clock
	return rl
}

func every(perHour int) rate.Limit {
	return rate.Every(time.Hour / time.Duration(perHour))
}

// Limit returns the current per-hour budget.
func (rl *RateLimiter) Limit() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.perHour
}

// SetLimit changes the budget for new and existing clients.
func (rl *RateLimiter) SetLimit(perHour int) {
	if perHour < 1 {
		return
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if perHour == rl.perHour {
		return
	}
	rl.perHour = perHour
	now := rl.clock()
	for _, b := range rl.clients {
		b.limiter.SetLimitAt(now, every(perHour))
		b.limiter.SetBurstAt(now, perHour)
	}
}

// Allow consumes a token for client. When the bucket is empty it returns
// false and how long until the next token.
func (rl *RateLimiter) Allow(client string) (time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock()
	rl.sweep(now)

	b, ok := rl.clients[client]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(every(rl.perHour), rl.perHour)}
		rl.clients[client] = b
	}
	b.lastSeen = now

	if b.limiter.AllowN(now, 1) {
		return 0, true
	}

	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return time.Hour, false
	}
	wait := r.DelayFrom(now)
	r.CancelAt(now)
	return wait, false
}

// sweep drops buckets idle long enough to have refilled completely.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < sweepInterval {
		return
	}
	rl.lastSweep = now
	for client, b := range rl.clients {
		if now.Sub(b.lastSeen) >= time.Hour {
			delete(rl.clients, client)
		}
	}
}

// size returns the number of tracked buckets.
func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// RateLimitExceededMessage is the 429 error text: the local wall-clock time
// the next request is allowed and the wait rounded up to whole minutes.
func RateLimitExceededMessage(now time.Time, wait time.Duration) string {
	minutes := int(math.Ceil(wait.Minutes()))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("Rate limit exceeded. Please try again at %s (in %d minutes).",
		now.Add(wait).Format("3:04 PM"), minutes)
}

// RateLimitMiddleware answers 429 with a JSON error once a client has used
// its budget. X-RateLimit-Limit is set on every response.
func RateLimitMiddleware(limiter *RateLimiter, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := GetClientIP(r)
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))

			wait, ok := limiter.Allow(clientIP)
			if !ok {
				logger.Warn("rate limit exceeded",
					zap.String("remote", clientIP),
					zap.Duration("retry_after", wait))
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				writeError(w, http.StatusTooManyRequests, RateLimitExceededMessage(limiter.now(), wait))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) now() time.Time {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.clock()
}
