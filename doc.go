// Package statuswatch watches statuspage.io/incident.io-compatible status
// pages and republishes new incidents and component health transitions as
// a deduplicated, ordered event stream.
//
// statuswatch is designed as an SDK-first library: applications configure
// providers programmatically and embed the watcher, or run the standalone
// binary with a YAML configuration file. Detected changes are written to
// a local sink (stdout by default) and streamed live over Server-Sent
// Events and WebSocket, with the last 50 records replayed to late-joining
// subscribers.
//
// # Quick Start
//
// Create providers and start the watcher with graceful shutdown:
//
//	p, _ := statuswatch.NewProvider("OpenAI API", "https://status.openai.com/api/v2")
//	w, _ := statuswatch.New(statuswatch.WithProvider(p))
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	w.Start(ctx) // blocks until context is cancelled
//
// # Configuration
//
// statuswatch uses the functional options pattern for configuration:
//
//	w, err := statuswatch.New(
//	    statuswatch.WithProviders(p1, p2),
//	    statuswatch.WithPollInterval(30 * time.Second),
//	    statuswatch.WithPort(9090),
//	    statuswatch.WithEventCallback(func(ev statuswatch.StatusEvent) {
//	        // forward to a pager, chat channel, ...
//	    }),
//	)
//
// Providers can also be configured with options:
//
//	p, err := statuswatch.NewProvider("Internal", "https://status.internal.example/api/v2",
//	    statuswatch.WithHeaders("Authorization", "Bearer token"),
//	    statuswatch.WithTimeout(5 * time.Second),
//	)
//
// # Delivery semantics
//
// Each distinct incident state (incident id plus update count) is emitted
// at most once per provider for the lifetime of the process. Component
// transitions are detected against the previous poll's baseline; the
// first poll only records the baseline. Historical resolved incidents
// present on a provider's very first poll are suppressed. Delivery to
// stream subscribers is best-effort: a subscriber that falls more than 50
// events behind loses events rather than slowing anyone else.
//
// # Architecture
//
// statuswatch consists of several internal packages (under internal/):
//
//   - internal/poller: per-provider incident/component poll loops with
//     jitter and capped exponential backoff
//   - internal/bus: single ordered event bus with replay buffer and
//     best-effort subscriber fan-out
//   - internal/server: HTTP server with SSE, WebSocket, and health
//   - dashboard: embedded viewer page assets
//
// The internal packages are not part of the public API and may change
// without notice. The library is designed for single-binary deployment
// using Go's embed directive for static assets.
package statuswatch
