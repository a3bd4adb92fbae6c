package hooks

import (
	"sync"
	"time"
)

type admission struct {
	id string
	at time.Time
}

// RateLimiter applies sliding-window admission control, independently
// per user and per channel. Each history is a time-ordered queue of
// admitted (identifier, instant) pairs; ordering is guaranteed because
// admissions are the only insertions and each uses the current time.
type RateLimiter struct {
	perUser    int
	perChannel int
	window     time.Duration

	// now is replaceable in tests.
	now func() time.Time

	mu       sync.Mutex
	users    []admission
	channels []admission
}

// NewRateLimiter creates a limiter admitting at most perUser events
// per user and perChannel per channel within the window.
func NewRateLimiter(perUser, perChannel int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		perUser:    perUser,
		perChannel: perChannel,
		window:     window,
		now:        time.Now,
	}
}

// AdmitUser records and admits an event for the user unless the
// per-user limit is reached. Rejected events are not recorded.
func (r *RateLimiter) AdmitUser(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.admit(&r.users, userID, r.perUser)
}

// AdmitChannel records and admits an event for the channel unless the
// per-channel limit is reached. Rejected events are not recorded.
func (r *RateLimiter) AdmitChannel(channelID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.admit(&r.channels, channelID, r.perChannel)
}

func (r *RateLimiter) admit(history *[]admission, id string, max int) bool {
	now := r.now()

	// Evict entries older than the window from the front.
	evicted := 0
	for evicted < len(*history) && now.Sub((*history)[evicted].at) > r.window {
		evicted++
	}
	*history = (*history)[evicted:]

	count := 0
	for _, entry := range *history {
		if entry.id == id {
			count++
		}
	}
	if count >= max {
		return false
	}

	*history = append(*history, admission{id: id, at: now})
	return true
}
