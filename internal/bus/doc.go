// Package bus provides the single ordered event stream at the heart of
// statuswatch.
//
// All poll loops publish into one queue; a single consumer goroutine
// formats each event, logs it to the primary sink, appends it to a
// bounded replay buffer for late joiners, and fans it out best-effort to
// the bounded channels of live subscribers. A slow subscriber loses
// events; it never slows the bus or other subscribers.
//
// The main components are:
//
//   - [Bus]: queue plus the consumer that serializes dispatch
//   - [ReplayBuffer]: FIFO of the last 50 formatted records
//   - [Registry]: concurrency-safe subscriber set with snapshot fan-out
//   - [Event]: one observed status change and its record rendering
package bus
