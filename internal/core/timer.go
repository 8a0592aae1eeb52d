package core

import (
	"sync"
	"time"
)

// Interval gates a repeating action to at most once per period.
type Interval struct {
	mu     sync.Mutex
	period time.Duration
	last   time.Time
	now    func() time.Time
}

// NewInterval constructs an Interval. A non-positive period lets every call
// through.
func NewInterval(period time.Duration) *Interval {
	return &Interval{period: period, now: time.Now}
}

// Ready reports whether the period has elapsed since the last accepted call
// and, if so, restarts the period.
func (i *Interval) Ready() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.period <= 0 {
		return true
	}
	now := i.now()
	if !i.last.IsZero() && now.Sub(i.last) < i.period {
		return false
	}
	i.last = now
	return true
}

// Reset makes the next call to Ready succeed.
func (i *Interval) Reset() {
	i.mu.Lock()
	i.last = time.Time{}
	i.mu.Unlock()
}
