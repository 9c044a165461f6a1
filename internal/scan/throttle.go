package scan

import "time"

// reportThrottle rate-limits progress callbacks to at most maxPerSecond
// invocations of wall-clock time, except that the first immediateCount
// events always pass. Early files report instantly so the consumer sees
// feedback at scan start; after that a fast scan cannot flood a slow UI.
type reportThrottle struct {
	interval  time.Duration
	immediate int

	seen int
	last time.Time
	now  func() time.Time
}

func newReportThrottle(maxPerSecond, immediateCount int) *reportThrottle {
	return &reportThrottle{
		interval:  time.Second / time.Duration(maxPerSecond),
		immediate: immediateCount,
		now:       time.Now,
	}
}

// Allow reports whether this event should be delivered.
func (t *reportThrottle) Allow() bool {
	t.seen++
	if t.seen <= t.immediate {
		t.last = t.now()
		return true
	}
	now := t.now()
	if now.Sub(t.last) >= t.interval {
		t.last = now
		return true
	}
	return false
}
