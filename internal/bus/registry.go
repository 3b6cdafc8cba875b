package bus

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// subscriberBuffer is the per-subscriber channel capacity. A subscriber
// that falls this far behind starts losing events rather than slowing the
// bus or its peers.
const subscriberBuffer = 50

// Registry tracks the bounded channels of live streaming subscribers.
//
// Connection handlers insert and remove channels concurrently; the bus
// goroutine fans out over a snapshot of the set, never the live map.
// Channels are never closed by the registry: a reader stops via its own
// connection context, which avoids any send-after-close race with an
// in-flight broadcast.
type Registry struct {
	mu      sync.RWMutex
	subs    map[string]chan string
	dropped atomic.Uint64
}

// NewRegistry creates an empty subscriber registry.
func NewRegistry() *Registry {
	return &Registry{subs: make(map[string]chan string)}
}

// Subscribe registers a new bounded subscriber channel and returns its id
// for later removal. The channel receives every record broadcast after
// this call, subject to the drop-on-full policy.
func (r *Registry) Subscribe() (string, <-chan string) {
	id := uuid.NewString()
	ch := make(chan string, subscriberBuffer)

	r.mu.Lock()
	r.subs[id] = ch
	r.mu.Unlock()

	return id, ch
}

// Unsubscribe removes a subscriber. Safe to call with an unknown id or
// more than once.
func (r *Registry) Unsubscribe(id string) {
	r.mu.Lock()
	delete(r.subs, id)
	r.mu.Unlock()
}

// Count returns the number of live subscribers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

// Dropped returns how many record deliveries have been discarded because
// a subscriber's channel was full.
func (r *Registry) Dropped() uint64 {
	return r.dropped.Load()
}

// broadcast delivers a record to every current subscriber without
// blocking. Delivery is best-effort: a full channel drops the record for
// that subscriber only.
func (r *Registry) broadcast(record string) {
	r.mu.RLock()
	targets := make([]chan string, 0, len(r.subs))
	for _, ch := range r.subs {
		targets = append(targets, ch)
	}
	r.mu.RUnlock()

	for _, ch := range targets {
		select {
		case ch <- record:
		default:
			r.dropped.Add(1)
		}
	}
}
