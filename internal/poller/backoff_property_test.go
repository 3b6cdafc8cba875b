package poller

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

// Property: the backoff delay never exceeds the cap and never shrinks
// across consecutive failures, regardless of interval or failure count.
func TestProperty_BackoffBoundedAndMonotone(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		intervalSec := rapid.IntRange(1, 600).Draw(rt, "interval_sec")
		failures := rapid.IntRange(1, 40).Draw(rt, "failures")

		interval := time.Duration(intervalSec) * time.Second
		b := NewBackoff(interval)

		prev := time.Duration(0)
		for i := 0; i < failures; i++ {
			d := b.Next()
			if d > maxBackoff && d != interval {
				t.Fatalf("delay %v exceeds cap %v (interval %v)", d, maxBackoff, interval)
			}
			if d < prev && d != maxBackoff {
				t.Fatalf("delay shrank from %v to %v before reaching the cap", prev, d)
			}
			prev = d
		}
	})
}

// Property: Reset always restores the starting delay, no matter how far
// the policy has advanced.
func TestProperty_BackoffResetRestoresInterval(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		intervalSec := rapid.IntRange(1, 300).Draw(rt, "interval_sec")
		failures := rapid.IntRange(0, 20).Draw(rt, "failures")

		interval := time.Duration(intervalSec) * time.Second
		b := NewBackoff(interval)
		for i := 0; i < failures; i++ {
			b.Next()
		}
		b.Reset()

		if got := b.Next(); got != interval {
			t.Fatalf("Next() after Reset() = %v, want %v", got, interval)
		}
	})
}
