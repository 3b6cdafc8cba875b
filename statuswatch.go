package statuswatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/statuswatch/statuswatch/dashboard"
	"github.com/statuswatch/statuswatch/internal/bus"
	"github.com/statuswatch/statuswatch/internal/poller"
	"github.com/statuswatch/statuswatch/internal/server"
)

const (
	defaultPollInterval = 30 * time.Second
	defaultPort         = 8080
)

// Watcher is the main orchestrator for provider polling and event
// streaming.
//
// Watcher coordinates per-provider incident and component pollers, an
// ordered event bus with replay, and the HTTP surface that streams events
// to subscribers. It is created with [New] using functional options and
// started with [Watcher.Start].
//
// The typical lifecycle is:
//
//	w, err := statuswatch.New(statuswatch.WithProvider(p))
//	if err != nil {
//	    slog.Error("failed to create watcher", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	w.Start(ctx) // blocks until context cancelled
type Watcher struct {
	title          string
	providers      []Provider
	pollInterval   time.Duration
	port           int
	logger         *slog.Logger
	sink           io.Writer
	eventCallbacks []func(StatusEvent)
}

// New creates a new [Watcher] with the given options.
//
// At least one provider must be configured via [WithProvider] or
// [WithProviders], and provider names must be unique. Other options have
// defaults: poll interval 30 seconds, port 8080, event sink os.Stdout.
//
// Returns an error if no providers are configured or any option is
// invalid.
func New(opts ...Option) (*Watcher, error) {
	cfg := &watcherConfig{
		pollInterval: defaultPollInterval,
		port:         defaultPort,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if len(cfg.providers) == 0 {
		return nil, errors.New("at least one provider is required")
	}

	// provider names key events, dedup state, and log context
	seen := make(map[string]bool, len(cfg.providers))
	for _, p := range cfg.providers {
		if seen[p.name] {
			return nil, fmt.Errorf("duplicate provider name: %q", p.name)
		}
		seen[p.name] = true
	}

	if cfg.port < 1 || cfg.port > 65535 {
		return nil, fmt.Errorf("port must be between 1 and 65535, got %d", cfg.port)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	sink := cfg.sink
	if sink == nil {
		sink = os.Stdout
	}

	return &Watcher{
		title:          cfg.title,
		providers:      cfg.providers,
		pollInterval:   cfg.pollInterval,
		port:           cfg.port,
		logger:         logger,
		sink:           sink,
		eventCallbacks: cfg.eventCallbacks,
	}, nil
}

// Start begins polling providers and serving the event stream.
//
// Start is a blocking call that runs until the provided context is
// cancelled. During execution:
//
//   - Each provider's incident and component feeds are polled at the
//     configured interval, with startup jitter and failure backoff
//   - Every detected change is written to the event sink, buffered for
//     replay, and streamed to /events (SSE) and /ws subscribers
//   - The viewer page is available at http://localhost:<port>
//
// Returns nil on graceful shutdown. Returns an error if the HTTP server
// fails to start.
func (w *Watcher) Start(ctx context.Context) error {
	w.logger.Info("statuswatch starting",
		"providers", len(w.providers),
		"poll_interval", w.pollInterval.String(),
	)
	w.logger.Info("viewer available", "url", fmt.Sprintf("http://localhost:%d", w.port))

	if ctx.Err() != nil {
		return nil
	}

	var onEvent func(bus.Event)
	if len(w.eventCallbacks) > 0 {
		onEvent = w.dispatchCallbacks
	}
	eventBus := bus.New(w.sink, w.logger, onEvent)

	// internal context so cleanup can stop the bus and pollers even when
	// the caller's context is still live, such as a failed server start
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		eventBus.Run(runCtx)
	}()

	runner := poller.NewRunner(w.toPollerProviders(), w.pollInterval, eventBus, w.logger)
	runner.Start(runCtx)

	cleanup := func() {
		cancel()
		runner.Stop()
		wg.Wait()
	}

	httpServer := server.NewServer(eventBus, w.port, len(w.providers), dashboard.Assets, w.title, w.logger)
	if err := httpServer.Start(runCtx); err != nil {
		cleanup()
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	<-ctx.Done()
	cleanup()
	w.logger.Info("statuswatch stopped")
	return nil
}

// toPollerProviders converts the configured providers to the poller's
// internal representation.
func (w *Watcher) toPollerProviders() []poller.ProviderInfo {
	infos := make([]poller.ProviderInfo, len(w.providers))
	for i, p := range w.providers {
		infos[i] = poller.ProviderInfo{
			Name:    p.name,
			BaseURL: p.baseURL,
			Headers: copyMap(p.headers),
			Timeout: p.timeout,
		}
	}
	return infos
}

// dispatchCallbacks converts a bus event to the public type and invokes
// every registered callback. Runs on the bus goroutine.
func (w *Watcher) dispatchCallbacks(ev bus.Event) {
	public := StatusEvent{
		Provider:  ev.Provider,
		Product:   ev.Product,
		Message:   ev.Message,
		Impact:    ev.Impact,
		Timestamp: ev.Timestamp,
	}
	for _, cb := range w.eventCallbacks {
		invokeCallbackSafe(cb, public, w.logger)
	}
}

// Providers returns a copy of the configured providers.
func (w *Watcher) Providers() []Provider {
	cp := make([]Provider, len(w.providers))
	copy(cp, w.providers)
	return cp
}

// Port returns the configured HTTP port.
func (w *Watcher) Port() int {
	return w.port
}

// PollInterval returns the configured interval between poll cycles.
func (w *Watcher) PollInterval() time.Duration {
	return w.pollInterval
}

// invokeCallbackSafe calls an event callback with panic recovery. Panics
// are logged with a correlation id but do not propagate: a misbehaving
// callback must not take down the event bus.
func invokeCallbackSafe(cb func(StatusEvent), ev StatusEvent, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event callback panicked",
				"correlation_id", uuid.NewString(),
				"panic", r,
				"provider", ev.Provider,
				"product", ev.Product,
			)
		}
	}()
	cb(ev)
}
