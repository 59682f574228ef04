// Package ratelimit implements a fixed-window request counter with
// progressive blocking. State is process-local; in a horizontally scaled
// deployment each instance enforces its own approximate limit.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// maxViolationMultiplier caps the progressive block penalty.
const maxViolationMultiplier = 5

// Rule configures one limiter: at most MaxRequests per Window, with
// offenders blocked for BlockDuration scaled by their violation count.
type Rule struct {
	MaxRequests   int
	Window        time.Duration
	BlockDuration time.Duration
}

// Decision is the outcome of a single Check call.
type Decision struct {
	Allowed    bool
	Remaining  int           // Requests left in the current window.
	Reset      time.Time     // When the current window ends.
	RetryAfter time.Duration // How long the caller must wait; zero when allowed.
}

type entry struct {
	count      int
	resetTime  time.Time
	blocked    bool
	blockUntil time.Time
	violations int
}

// Limiter tracks request counts per key. Safe for concurrent use.
type Limiter struct {
	rule    Rule
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

// New creates a limiter for the given rule.
func New(rule Rule) *Limiter {
	return &Limiter{
		rule:    rule,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Check records one request for key and decides whether it is allowed.
//
// Requests arriving while the key is blocked are rejected without touching
// the window counter. Exceeding the window limit blocks the key for
// BlockDuration multiplied by its violation count, capped at 5x.
func (l *Limiter) Check(key string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{}
		l.entries[key] = e
	}

	if e.blocked {
		if now.Before(e.blockUntil) {
			return Decision{
				Allowed:    false,
				Reset:      e.blockUntil,
				RetryAfter: e.blockUntil.Sub(now),
			}
		}
		// Block expired; start a fresh window but remember the violations.
		e.blocked = false
		e.count = 0
	}

	if e.count == 0 || now.After(e.resetTime) {
		e.count = 1
		e.resetTime = now.Add(l.rule.Window)

		return Decision{Allowed: true, Remaining: l.rule.MaxRequests - 1, Reset: e.resetTime}
	}

	e.count++
	if e.count > l.rule.MaxRequests {
		e.violations++
		multiplier := e.violations
		if multiplier > maxViolationMultiplier {
			multiplier = maxViolationMultiplier
		}
		e.blocked = true
		e.blockUntil = now.Add(l.rule.BlockDuration * time.Duration(multiplier))

		return Decision{
			Allowed:    false,
			Reset:      e.blockUntil,
			RetryAfter: e.blockUntil.Sub(now),
		}
	}

	return Decision{Allowed: true, Remaining: l.rule.MaxRequests - e.count, Reset: e.resetTime}
}

// Reset forgets all state for key, including its violation history.
// The login flow calls this after a successful authentication.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.entries, key)
}

// Sweep drops entries whose window and block have both expired, and
// returns how many were removed.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, e := range l.entries {
		if now.After(e.resetTime) && (!e.blocked || now.After(e.blockUntil)) {
			delete(l.entries, key)
			removed++
		}
	}

	return removed
}

// Janitor sweeps expired entries at the given interval until ctx is done.
// Run it in its own goroutine.
func (l *Limiter) Janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.entries)
}

// LoginGuard is a limiter dedicated to failed-login tracking, a distinct
// type so dependency injection can tell it apart from HTTP traffic limiters.
// The login flow resets a key after a successful authentication.
type LoginGuard struct {
	*Limiter
}

// NewLoginGuard creates a login attempt guard for the given rule.
func NewLoginGuard(rule Rule) LoginGuard {
	return LoginGuard{Limiter: New(rule)}
}

// ClientKey builds the limiter key for an HTTP client: the client IP
// joined with a truncated hash of the User-Agent header, so two browsers
// behind one NAT do not share a bucket.
func ClientKey(clientIP, userAgent string) string {
	sum := sha256.Sum256([]byte(userAgent))

	return clientIP + ":" + hex.EncodeToString(sum[:])[:16]
}
