package poller

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/statuswatch/statuswatch/internal/bus"
)

// ComponentPoller watches one provider's components feed for
// status transitions on individual products.
//
// The first successful poll only records a baseline and never emits;
// subsequent polls emit one event per component whose status differs from
// the stored baseline. Run must be called at most once; the baseline lives
// inside the loop.
type ComponentPoller struct {
	provider  string
	url       string
	headers   map[string]string
	timeout   time.Duration
	interval  time.Duration
	client    *Client
	publisher Publisher
	logger    *slog.Logger
}

// NewComponentPoller creates a poller for the provider's components feed.
func NewComponentPoller(provider, baseURL string, headers map[string]string, timeout, interval time.Duration, client *Client, publisher Publisher, logger *slog.Logger) *ComponentPoller {
	return &ComponentPoller{
		provider:  provider,
		url:       baseURL + "/components.json",
		headers:   headers,
		timeout:   timeout,
		interval:  interval,
		client:    client,
		publisher: publisher,
		logger:    logger,
	}
}

// Run polls the components feed until ctx is cancelled. Its startup jitter
// window is offset from the incident poller's to spread provider load.
func (p *ComponentPoller) Run(ctx context.Context) {
	statuses := map[string]string{}
	backoff := NewBackoff(p.interval)

	if !sleep(ctx, componentJitter(p.interval)) {
		return
	}

	for {
		resp := p.client.Fetch(ctx, p.url, p.headers, p.timeout)
		if ctx.Err() != nil {
			return
		}
		if resp.Error != nil || resp.StatusCode != http.StatusOK {
			p.warnPollFailure(resp)
			if !sleep(ctx, backoff.Next()) {
				return
			}
			continue
		}
		backoff.Reset()

		var payload componentsResponse
		if err := json.Unmarshal(resp.Body, &payload); err != nil {
			p.logger.Warn("components payload unparsable",
				"provider", p.provider,
				"error", err,
			)
			if !sleep(ctx, backoff.Next()) {
				return
			}
			continue
		}

		var events []bus.Event
		events, statuses = p.ingest(statuses, payload)
		for _, ev := range events {
			p.publisher.Publish(ev)
		}

		if !sleep(ctx, p.interval) {
			return
		}
	}
}

// ingest compares the response against the previous baseline and returns
// the transition events plus the new baseline. Components absent from the
// response drop out of the baseline, so a component that disappears and
// later returns is treated as new rather than as a transition.
func (p *ComponentPoller) ingest(prev map[string]string, resp componentsResponse) ([]bus.Event, map[string]string) {
	current := make(map[string]string, len(resp.Components))
	var events []bus.Event

	for _, comp := range resp.Components {
		current[string(comp.ID)] = comp.Status

		// first poll just records the baseline
		if len(prev) == 0 {
			continue
		}

		old, known := prev[string(comp.ID)]
		if known && old != comp.Status {
			events = append(events, bus.Event{
				Provider:  p.provider,
				Product:   comp.Name,
				Message:   strings.ReplaceAll(comp.Status, "_", " "),
				Timestamp: NormalizeTimestamp(comp.UpdatedAt),
			})
		}
	}

	return events, current
}

func (p *ComponentPoller) warnPollFailure(resp Response) {
	attrs := []any{"provider", p.provider, "feed", "components"}
	if resp.Error != nil {
		attrs = append(attrs, "error", resp.Error)
	} else {
		attrs = append(attrs, "http_status", resp.StatusCode)
	}
	p.logger.Warn("poll failed", attrs...)
}
