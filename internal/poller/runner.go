package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ProviderInfo contains the configuration needed to poll a single
// provider. This is the poller-internal representation, decoupled from the
// public statuswatch.Provider type.
type ProviderInfo struct {
	// Name is the provider's display name, used in events and logs.
	Name string

	// BaseURL is the API base; the poll loops append /incidents.json
	// and /components.json.
	BaseURL string

	// Headers contains custom HTTP headers sent with every request.
	Headers map[string]string

	// Timeout is the per-request timeout.
	Timeout time.Duration
}

// Runner owns the poll loops for a set of providers.
//
// Start launches two goroutines per provider (incidents and components)
// sharing one pooled HTTP client. Stop cancels them and waits for all
// loops to exit. Both methods are safe for concurrent use; Start is
// idempotent and Stop before Start is a no-op.
type Runner struct {
	providers []ProviderInfo
	interval  time.Duration
	publisher Publisher
	logger    *slog.Logger
	client    *Client

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewRunner creates a Runner for the given providers. Events are handed
// to publisher in the order each loop produces them.
func NewRunner(providers []ProviderInfo, interval time.Duration, publisher Publisher, logger *slog.Logger) *Runner {
	return &Runner{
		providers: providers,
		interval:  interval,
		publisher: publisher,
		logger:    logger,
		client:    NewClient(),
	}
}

// Start launches the poll loops. Non-blocking; the loops run until Stop
// is called or ctx is cancelled.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started || r.stopped {
		return
	}
	r.started = true

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, r.cancel = context.WithCancel(ctx)

	for _, p := range r.providers {
		incidents := NewIncidentPoller(p.Name, p.BaseURL, p.Headers, p.Timeout, r.interval, r.client, r.publisher, r.logger)
		components := NewComponentPoller(p.Name, p.BaseURL, p.Headers, p.Timeout, r.interval, r.client, r.publisher, r.logger)

		r.wg.Add(2)
		go func() {
			defer r.wg.Done()
			incidents.Run(ctx)
		}()
		go func() {
			defer r.wg.Done()
			components.Run(ctx)
		}()
	}
}

// Stop cancels all poll loops and blocks until they exit. Idempotent;
// safe to call before Start.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.stopped {
		r.stopped = true
		if r.cancel != nil {
			r.cancel()
		}
	}
	r.mu.Unlock()

	r.wg.Wait()
	r.client.Close()
}
