package auth

import (
	"sync"
	"time"
)

// Class is an endpoint rate-limit class.
type Class string

const (
	ClassAuth       Class = "auth"
	ClassGameAction Class = "game-action"
	ClassQuery      Class = "query"
)

// ClassLimit is the token-bucket shape for one class: burst tokens,
// refilled at rate-per-window.
type ClassLimit struct {
	Burst  int
	Window time.Duration
}

// DefaultLimits returns reasonable per-class burst/window limits.
func DefaultLimits() map[Class]ClassLimit {
	return map[Class]ClassLimit{
		ClassAuth:       {Burst: 10, Window: time.Minute},
		ClassGameAction: {Burst: 30, Window: 10 * time.Second},
		ClassQuery:      {Burst: 100, Window: 10 * time.Second},
	}
}

// idleTTL is how long a counter may sit unused before it is swept.
const idleTTL = 5 * time.Minute

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// RateLimiter is a token-bucket limiter keyed on (IP, wallet, class),
// covering three endpoint classes with independent burst/window limits.
type RateLimiter struct {
	limits map[Class]ClassLimit

	mu      sync.Mutex
	buckets map[string]*bucket
}

// NewRateLimiter builds a limiter from the given per-class limits.
func NewRateLimiter(limits map[Class]ClassLimit) *RateLimiter {
	return &RateLimiter{
		limits:  limits,
		buckets: make(map[string]*bucket),
	}
}

// key composes the (IP, wallet, class) identity into one bucket key.
// wallet may be empty for unauthenticated callers.
func key(ip, wallet string, class Class) string {
	return string(class) + "|" + ip + "|" + wallet
}

// Allow reports whether a request in the given class from (ip, wallet) is
// permitted right now, and if not, how long until it would be.
func (rl *RateLimiter) Allow(ip, wallet string, class Class) (bool, time.Duration) {
	limit, ok := rl.limits[class]
	if !ok {
		return true, 0
	}
	ratePerSecond := float64(limit.Burst) / limit.Window.Seconds()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	k := key(ip, wallet, class)
	b, ok := rl.buckets[k]
	if !ok {
		b = &bucket{tokens: float64(limit.Burst), lastSeen: time.Now()}
		rl.buckets[k] = b
	}

	now := time.Now()
	elapsed := now.Sub(b.lastSeen).Seconds()
	b.tokens += elapsed * ratePerSecond
	if b.tokens > float64(limit.Burst) {
		b.tokens = float64(limit.Burst)
	}
	b.lastSeen = now

	if b.tokens >= 1.0 {
		b.tokens--
		return true, 0
	}
	retryAfter := time.Duration((1.0 - b.tokens) / ratePerSecond * float64(time.Second))
	return false, retryAfter
}

// Sweep removes buckets idle for longer than idleTTL, bounding memory
// growth from transient IPs/wallets. Intended to be called periodically
// by a background goroutine owned by the process, not by this type.
func (rl *RateLimiter) Sweep() {
	cutoff := time.Now().Add(-idleTTL)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for k, b := range rl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(rl.buckets, k)
		}
	}
}
