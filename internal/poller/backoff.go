package poller

import (
	"math/rand"
	"time"
)

// maxBackoff caps the retry delay for a failing provider. A provider that
// stays unreachable is retried forever at this cadence rather than disabled.
const maxBackoff = 300 * time.Second

// Backoff tracks the retry delay for a single poll loop. It starts at the
// poll interval, doubles on every consecutive failure up to [maxBackoff],
// and resets to the interval after any success.
//
// Each poll loop owns its own Backoff; the incident and component pollers
// for the same provider track failures independently.
type Backoff struct {
	interval time.Duration
	next     time.Duration
}

// NewBackoff creates a Backoff that starts at interval.
func NewBackoff(interval time.Duration) *Backoff {
	return &Backoff{interval: interval, next: interval}
}

// Next returns the delay to wait before the next retry and advances the
// policy: with interval 10s, consecutive calls yield 10s, 20s, 40s, ...
// capped at [maxBackoff].
func (b *Backoff) Next() time.Duration {
	d := b.next
	b.next = min(b.next*2, maxBackoff)
	return d
}

// Reset restores the delay to the poll interval. Call after any
// successful poll.
func (b *Backoff) Reset() {
	b.next = b.interval
}

// incidentJitter returns a random startup delay in [0, min(5s, interval))
// so that incident pollers for different providers do not fire in lockstep.
func incidentJitter(interval time.Duration) time.Duration {
	hi := min(5*time.Second, interval)
	if hi <= 0 {
		return 0
	}
	return time.Duration(rand.Float64() * float64(hi))
}

// componentJitter returns a random startup delay in [2s, min(7s, interval)),
// offset from the incident poller's window to spread load further.
func componentJitter(interval time.Duration) time.Duration {
	lo := 2 * time.Second
	hi := min(7*time.Second, interval)
	if hi <= lo {
		return hi
	}
	return lo + time.Duration(rand.Float64()*float64(hi-lo))
}
