package bus

import (
	"context"
	"io"
	"log/slog"
)

// eventQueueCapacity sizes the queue between the pollers and the bus
// consumer. The single consumer does no I/O waits beyond the sink write,
// so the queue never fills up in practice; it exists to decouple poll
// timing from dispatch.
const eventQueueCapacity = 1024

// Bus serializes events from all pollers into one ordered stream.
//
// A single consumer goroutine (Run) drains the queue. For every event it
// formats the record, writes it to the primary sink, appends it to the
// replay buffer, fans out to subscriber channels, and finally invokes the
// optional onEvent hook. Ordering is whatever arrives first across
// providers; within one poller it matches emit order.
type Bus struct {
	events   chan Event
	replay   *ReplayBuffer
	registry *Registry
	sink     io.Writer
	logger   *slog.Logger
	onEvent  func(Event)
	done     chan struct{}
}

// New creates a Bus writing formatted records to sink. onEvent, when
// non-nil, is invoked by the consumer goroutine after each record is
// buffered and fanned out; it must not block.
func New(sink io.Writer, logger *slog.Logger, onEvent func(Event)) *Bus {
	return &Bus{
		events:   make(chan Event, eventQueueCapacity),
		replay:   NewReplayBuffer(defaultReplayCapacity),
		registry: NewRegistry(),
		sink:     sink,
		logger:   logger,
		onEvent:  onEvent,
		done:     make(chan struct{}),
	}
}

// Publish enqueues an event for dispatch. It never blocks a poller
// indefinitely: once the bus has shut down, events are discarded.
func (b *Bus) Publish(ev Event) {
	select {
	case b.events <- ev:
	case <-b.done:
	}
}

// Run consumes and dispatches events until ctx is cancelled. It is the
// only goroutine that writes the sink and the replay buffer.
func (b *Bus) Run(ctx context.Context) {
	defer close(b.done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-b.events:
			b.dispatch(ev)
		}
	}
}

func (b *Bus) dispatch(ev Event) {
	record := ev.Record()

	if b.sink != nil {
		if _, err := io.WriteString(b.sink, record+"\n\n"); err != nil {
			b.logger.Warn("event sink write failed", "error", err)
		}
	}

	b.replay.Append(record)
	b.registry.broadcast(record)

	if b.onEvent != nil {
		b.onEvent(ev)
	}
}

// Subscribe registers a live subscriber channel; see [Registry.Subscribe].
func (b *Bus) Subscribe() (string, <-chan string) {
	return b.registry.Subscribe()
}

// Unsubscribe removes a subscriber registered with Subscribe.
func (b *Bus) Unsubscribe(id string) {
	b.registry.Unsubscribe(id)
}

// ReplaySnapshot returns the buffered recent records, oldest first.
func (b *Bus) ReplaySnapshot() []string {
	return b.replay.Snapshot()
}

// BufferedRecords returns the current replay buffer depth.
func (b *Bus) BufferedRecords() int {
	return b.replay.Len()
}

// Subscribers returns the number of live subscriber channels.
func (b *Bus) Subscribers() int {
	return b.registry.Count()
}

// DroppedRecords returns the total deliveries discarded due to full
// subscriber channels.
func (b *Bus) DroppedRecords() uint64 {
	return b.registry.Dropped()
}
