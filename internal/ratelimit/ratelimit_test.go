package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(rule Rule) (*Limiter, *time.Time) {
	l := New(rule)
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return current }

	return l, &current
}

func TestLimiter_FixedWindow(t *testing.T) {
	rule := Rule{MaxRequests: 3, Window: time.Second, BlockDuration: 10 * time.Second}
	l, now := newTestLimiter(rule)

	for i := 0; i < 3; i++ {
		d := l.Check("k")
		assert.True(t, d.Allowed, "request %d should pass", i+1)
		assert.Equal(t, 2-i, d.Remaining)
	}

	d := l.Check("k")
	assert.False(t, d.Allowed, "4th request within the window must be rejected")
	assert.Equal(t, 10*time.Second, d.RetryAfter)

	// After the block and the window both elapse, the counter resets.
	*now = now.Add(11 * time.Second)
	d = l.Check("k")
	assert.True(t, d.Allowed)
	assert.Equal(t, 2, d.Remaining)
}

func TestLimiter_WindowExpiryResetsCount(t *testing.T) {
	l, now := newTestLimiter(Rule{MaxRequests: 2, Window: time.Second, BlockDuration: time.Minute})

	require.True(t, l.Check("k").Allowed)
	require.True(t, l.Check("k").Allowed)

	*now = now.Add(1500 * time.Millisecond)
	d := l.Check("k")
	assert.True(t, d.Allowed, "a fresh window starts after the old one expires")
	assert.Equal(t, 1, d.Remaining)
}

func TestLimiter_ProgressiveBlocking(t *testing.T) {
	base := 10 * time.Second
	l, now := newTestLimiter(Rule{MaxRequests: 1, Window: time.Second, BlockDuration: base})

	exceed := func() Decision {
		require.True(t, l.Check("k").Allowed)

		return l.Check("k")
	}

	first := exceed()
	require.False(t, first.Allowed)
	assert.Equal(t, base, first.RetryAfter, "first violation blocks for the base duration")

	// Requests during the block do not extend it.
	*now = now.Add(time.Second)
	during := l.Check("k")
	require.False(t, during.Allowed)
	assert.Equal(t, base-time.Second, during.RetryAfter)

	// Violating again after unblocking doubles the penalty.
	*now = now.Add(base)
	second := exceed()
	require.False(t, second.Allowed)
	assert.Equal(t, 2*base, second.RetryAfter)

	// The multiplier is capped at 5x no matter how often the key offends.
	for i := 0; i < 10; i++ {
		*now = now.Add(time.Hour)
		last := exceed()
		require.False(t, last.Allowed)
		assert.LessOrEqual(t, last.RetryAfter, 5*base)
	}
	*now = now.Add(time.Hour)
	capped := exceed()
	assert.Equal(t, 5*base, capped.RetryAfter)
}

func TestLimiter_ResetClearsViolations(t *testing.T) {
	l, now := newTestLimiter(Rule{MaxRequests: 1, Window: time.Second, BlockDuration: 10 * time.Second})

	require.True(t, l.Check("k").Allowed)
	require.False(t, l.Check("k").Allowed)

	l.Reset("k")
	*now = now.Add(time.Millisecond)

	d := l.Check("k")
	assert.True(t, d.Allowed, "reset must forget the block")

	require.False(t, l.Check("k").Allowed)
	blocked := l.Check("k")
	assert.InDelta(t, (10 * time.Second).Seconds(), blocked.RetryAfter.Seconds(), 0.01,
		"violation history is wiped by reset, penalty starts at 1x again")
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(Rule{MaxRequests: 1, Window: time.Second, BlockDuration: time.Minute})

	require.True(t, l.Check("a").Allowed)
	require.False(t, l.Check("a").Allowed)

	assert.True(t, l.Check("b").Allowed, "blocking one key must not affect another")
}

func TestLimiter_Sweep(t *testing.T) {
	l, now := newTestLimiter(Rule{MaxRequests: 1, Window: time.Second, BlockDuration: 10 * time.Second})

	l.Check("fresh")
	l.Check("stale")
	l.Check("blocked")
	l.Check("blocked")
	require.Equal(t, 3, l.Len())

	*now = now.Add(2 * time.Second)
	l.Check("fresh") // starts a new window, stays live

	removed := l.Sweep()
	assert.Equal(t, 1, removed, "only the stale unblocked key is evicted")
	assert.Equal(t, 2, l.Len(), "blocked keys survive until the block expires")

	*now = now.Add(time.Minute)
	l.Sweep()
	assert.Equal(t, 0, l.Len())
}

func TestClientKey(t *testing.T) {
	a := ClientKey("1.2.3.4", "Mozilla/5.0")
	b := ClientKey("1.2.3.4", "curl/8.0")

	assert.NotEqual(t, a, b, "different user agents behind one IP get separate buckets")
	assert.Equal(t, a, ClientKey("1.2.3.4", "Mozilla/5.0"))
	assert.Contains(t, a, "1.2.3.4:")
}
