package scan

import (
	"testing"
	"time"
)

func TestThrottleImmediateEvents(t *testing.T) {
	th := newReportThrottle(4, 5)
	clock := time.Unix(0, 0)
	th.now = func() time.Time { return clock }

	for i := 0; i < 5; i++ {
		if !th.Allow() {
			t.Fatalf("event %d should pass immediately", i+1)
		}
	}
	// Sixth event at the same instant is gated.
	if th.Allow() {
		t.Fatal("event 6 should be throttled without elapsed time")
	}
}

func TestThrottleRate(t *testing.T) {
	th := newReportThrottle(4, 0)
	clock := time.Unix(0, 0)
	th.now = func() time.Time { return clock }

	// First event passes because no prior delivery happened.
	if !th.Allow() {
		t.Fatal("first event should pass")
	}
	clock = clock.Add(100 * time.Millisecond)
	if th.Allow() {
		t.Fatal("100ms after delivery should be throttled at 4/sec")
	}
	clock = clock.Add(200 * time.Millisecond)
	if !th.Allow() {
		t.Fatal("300ms after delivery should pass")
	}

	// Burst within one interval delivers exactly once.
	passed := 0
	for i := 0; i < 10; i++ {
		clock = clock.Add(10 * time.Millisecond)
		if th.Allow() {
			passed++
		}
	}
	if passed != 0 {
		t.Fatalf("burst within 100ms delivered %d events", passed)
	}
}
