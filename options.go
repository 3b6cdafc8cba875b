package statuswatch

import (
	"errors"
	"io"
	"log/slog"
	"time"
)

// watcherConfig holds mutable state during Watcher construction.
type watcherConfig struct {
	title          string
	providers      []Provider
	pollInterval   time.Duration
	port           int
	logger         *slog.Logger
	sink           io.Writer
	eventCallbacks []func(StatusEvent)
}

// Option is a function that configures a [Watcher] instance during
// construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
//
// Built-in options: [WithProvider], [WithProviders], [WithPollInterval],
// [WithPort], [WithTitle], [WithLogger], [WithEventSink],
// [WithEventCallback].
type Option func(*watcherConfig) error

// WithProvider adds a single [Provider] to the watch list.
//
// Can be called multiple times. At least one provider must be configured
// for [New] to succeed.
func WithProvider(p Provider) Option {
	return func(cfg *watcherConfig) error {
		cfg.providers = append(cfg.providers, p)
		return nil
	}
}

// WithProviders adds multiple [Provider] values to the watch list.
// Equivalent to calling [WithProvider] multiple times.
func WithProviders(providers ...Provider) Option {
	return func(cfg *watcherConfig) error {
		cfg.providers = append(cfg.providers, providers...)
		return nil
	}
}

// WithPollInterval sets how often each provider's feeds are polled.
//
// Every provider gets its own incident and component poll loops running
// at this interval (with independent startup jitter and failure backoff).
// Defaults to 30 seconds.
//
// Returns an error if the interval is shorter than 1 second.
func WithPollInterval(d time.Duration) Option {
	return func(cfg *watcherConfig) error {
		if d < time.Second {
			return errors.New("poll interval must be at least 1 second")
		}
		cfg.pollInterval = d
		return nil
	}
}

// WithPort sets the HTTP port for the viewer and stream endpoints.
// Defaults to 8080.
func WithPort(port int) Option {
	return func(cfg *watcherConfig) error {
		cfg.port = port
		return nil
	}
}

// WithTitle sets the viewer page title. Defaults to "statuswatch".
func WithTitle(title string) Option {
	return func(cfg *watcherConfig) error {
		cfg.title = title
		return nil
	}
}

// WithLogger sets the logger used for operational messages (poll
// failures, server lifecycle). Defaults to [slog.Default].
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *watcherConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithEventSink sets the writer that receives every formatted event
// record. Defaults to [os.Stdout]. Pass [io.Discard] to silence the
// console stream while keeping the web surface.
//
// The sink is written only by the event bus goroutine, in event order.
//
// Returns an error if the writer is nil.
func WithEventSink(w io.Writer) Option {
	return func(cfg *watcherConfig) error {
		if w == nil {
			return errors.New("event sink cannot be nil")
		}
		cfg.sink = w
		return nil
	}
}

// WithEventCallback registers a function invoked for every [StatusEvent]
// after it has been logged and fanned out to subscribers.
//
// Can be called multiple times; callbacks run in registration order on
// the event bus goroutine, so they should return quickly. A panicking
// callback is recovered and logged without disturbing delivery.
func WithEventCallback(cb func(StatusEvent)) Option {
	return func(cfg *watcherConfig) error {
		if cb == nil {
			return errors.New("event callback cannot be nil")
		}
		cfg.eventCallbacks = append(cfg.eventCallbacks, cb)
		return nil
	}
}
