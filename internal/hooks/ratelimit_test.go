package hooks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock lets tests advance the limiter's notion of now.
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) now() time.Time { return c.current }

func (c *fakeClock) advance(d time.Duration) { c.current = c.current.Add(d) }

func newTestLimiter(perUser, perChannel int, window time.Duration) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	limiter := NewRateLimiter(perUser, perChannel, window)
	limiter.now = clock.now
	return limiter, clock
}

func TestRateLimiterUserWindow(t *testing.T) {
	limiter, clock := newTestLimiter(2, 10, time.Minute)

	assert.True(t, limiter.AdmitUser("u1"))
	assert.True(t, limiter.AdmitUser("u1"))
	assert.False(t, limiter.AdmitUser("u1"), "third admission within the window must be rejected")

	// A different user has its own budget.
	assert.True(t, limiter.AdmitUser("u2"))

	// Once the oldest entries age out, the user is admitted again.
	clock.advance(61 * time.Second)
	assert.True(t, limiter.AdmitUser("u1"))
}

func TestRateLimiterChannelWindow(t *testing.T) {
	limiter, _ := newTestLimiter(5, 2, time.Minute)

	assert.True(t, limiter.AdmitChannel("chan1"))
	assert.True(t, limiter.AdmitChannel("chan1"))
	assert.False(t, limiter.AdmitChannel("chan1"))
	assert.True(t, limiter.AdmitChannel("chan2"))
}

func TestRateLimiterDimensionsIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(1, 1, time.Minute)

	// Exhausting the user budget leaves the channel budget untouched.
	assert.True(t, limiter.AdmitUser("id"))
	assert.False(t, limiter.AdmitUser("id"))
	assert.True(t, limiter.AdmitChannel("id"))
}

func TestRateLimiterRejectionNotRecorded(t *testing.T) {
	limiter, clock := newTestLimiter(1, 10, time.Minute)

	assert.True(t, limiter.AdmitUser("u1"))
	// Rejected attempts must not extend the window.
	for i := 0; i < 5; i++ {
		clock.advance(10 * time.Second)
		limiter.AdmitUser("u1")
	}
	// 61s after the single admitted entry, the user is clear again.
	clock.advance(11 * time.Second)
	assert.True(t, limiter.AdmitUser("u1"))
}

func TestRateLimiterEvictsOldEntries(t *testing.T) {
	limiter, clock := newTestLimiter(3, 10, time.Minute)

	assert.True(t, limiter.AdmitUser("u1"))
	clock.advance(30 * time.Second)
	assert.True(t, limiter.AdmitUser("u1"))
	clock.advance(31 * time.Second)

	// The first entry is now outside the window; only one remains.
	assert.True(t, limiter.AdmitUser("u1"))
	assert.Len(t, limiter.users, 2)
}
