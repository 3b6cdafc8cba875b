package bus

import "sync"

// defaultReplayCapacity is how many recent records are kept for
// late-joining subscribers.
const defaultReplayCapacity = 50

// ReplayBuffer is a bounded FIFO of recent formatted records.
//
// It is appended to only by the bus goroutine; Snapshot may be called
// concurrently from connection handlers, so reads are guarded by a lock.
type ReplayBuffer struct {
	mu      sync.RWMutex
	max     int
	records []string
}

// NewReplayBuffer creates a buffer holding up to max records. A max of
// zero or less falls back to the default capacity.
func NewReplayBuffer(max int) *ReplayBuffer {
	if max <= 0 {
		max = defaultReplayCapacity
	}
	return &ReplayBuffer{max: max}
}

// Append adds a record, evicting the oldest entry when the buffer is full.
func (b *ReplayBuffer) Append(record string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, record)
	if len(b.records) > b.max {
		// shift rather than reslice so the backing array cannot grow
		// without bound over long uptimes
		copy(b.records, b.records[len(b.records)-b.max:])
		b.records = b.records[:b.max]
	}
}

// Snapshot returns a copy of the buffered records, oldest first.
func (b *ReplayBuffer) Snapshot() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, len(b.records))
	copy(out, b.records)
	return out
}

// Len returns the number of buffered records.
func (b *ReplayBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.records)
}
