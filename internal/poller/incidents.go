package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/statuswatch/statuswatch/internal/bus"
)

// maxSeenTags bounds the per-provider dedup set. On overflow the set is
// replaced by exactly the tags present in the current response, which can
// re-emit a pruned incident if it resurfaces later. That is an accepted
// tradeoff to keep memory bounded over long uptimes.
const maxSeenTags = 200

// Publisher accepts events for ordered dispatch. Satisfied by [bus.Bus].
type Publisher interface {
	Publish(ev bus.Event)
}

// IncidentPoller watches one provider's incidents feed.
//
// The poller fetches {base}/incidents.json at the configured interval,
// skips cycles where page.updated_at has not moved, and emits at most one
// event per distinct (incident id, update count) pair for the lifetime of
// the process. Run must be called at most once; all state lives inside
// the loop.
type IncidentPoller struct {
	provider  string
	url       string
	headers   map[string]string
	timeout   time.Duration
	interval  time.Duration
	client    *Client
	publisher Publisher
	logger    *slog.Logger
}

// NewIncidentPoller creates a poller for the provider's incidents feed.
func NewIncidentPoller(provider, baseURL string, headers map[string]string, timeout, interval time.Duration, client *Client, publisher Publisher, logger *slog.Logger) *IncidentPoller {
	return &IncidentPoller{
		provider:  provider,
		url:       baseURL + "/incidents.json",
		headers:   headers,
		timeout:   timeout,
		interval:  interval,
		client:    client,
		publisher: publisher,
		logger:    logger,
	}
}

// incidentState is the mutable poll state for one provider's incidents
// feed. It is owned exclusively by the Run goroutine.
type incidentState struct {
	seen          map[string]struct{}
	pageUpdatedAt string
	coldStart     bool
}

func newIncidentState() *incidentState {
	return &incidentState{
		seen:      make(map[string]struct{}),
		coldStart: true,
	}
}

// Run polls the incidents feed until ctx is cancelled. It starts with a
// small random delay so pollers for different providers do not burst in
// lockstep, then fetches every interval, backing off on failure.
func (p *IncidentPoller) Run(ctx context.Context) {
	st := newIncidentState()
	backoff := NewBackoff(p.interval)

	if !sleep(ctx, incidentJitter(p.interval)) {
		return
	}

	for {
		resp := p.client.Fetch(ctx, p.url, p.headers, p.timeout)
		if ctx.Err() != nil {
			return
		}
		if resp.Error != nil || resp.StatusCode != http.StatusOK {
			p.warnPollFailure("incidents", resp)
			if !sleep(ctx, backoff.Next()) {
				return
			}
			continue
		}
		backoff.Reset()

		var payload incidentsResponse
		if err := json.Unmarshal(resp.Body, &payload); err != nil {
			p.logger.Warn("incidents payload unparsable",
				"provider", p.provider,
				"error", err,
			)
			if !sleep(ctx, backoff.Next()) {
				return
			}
			continue
		}

		for _, ev := range p.ingest(st, payload) {
			p.publisher.Publish(ev)
		}

		if !sleep(ctx, p.interval) {
			return
		}
	}
}

// ingest applies one successful incidents response to the poll state and
// returns the events to emit, in response order.
func (p *IncidentPoller) ingest(st *incidentState, resp incidentsResponse) []bus.Event {
	// page-level updated_at only moves when something actually changed,
	// so an unchanged value makes the whole cycle a cheap no-op
	if resp.Page.UpdatedAt != "" && resp.Page.UpdatedAt == st.pageUpdatedAt {
		return nil
	}
	st.pageUpdatedAt = resp.Page.UpdatedAt

	var events []bus.Event
	for _, inc := range resp.Incidents {
		if ev, ok := p.examine(st, inc); ok {
			events = append(events, ev)
		}
	}
	st.coldStart = false

	if len(st.seen) > maxSeenTags {
		st.seen = make(map[string]struct{}, len(resp.Incidents))
		for _, inc := range resp.Incidents {
			st.seen[incidentTag(inc)] = struct{}{}
		}
	}

	return events
}

// incidentTag is the dedup key identifying a unique incident state:
// a new update on a known incident changes the update count and therefore
// the tag.
func incidentTag(inc incident) string {
	return fmt.Sprintf("%s:%d", inc.ID, len(inc.IncidentUpdates))
}

// examine records the incident's dedup tag and, if it is new and not a
// cold-start resolved incident, builds the event to emit.
func (p *IncidentPoller) examine(st *incidentState, inc incident) (bus.Event, bool) {
	tag := incidentTag(inc)
	if _, ok := st.seen[tag]; ok {
		return bus.Event{}, false
	}
	st.seen[tag] = struct{}{}

	// the first successful poll would otherwise flood the stream with
	// every historical resolved incident the provider still lists
	if st.coldStart && inc.Status == "resolved" {
		return bus.Event{}, false
	}

	message := inc.Status
	rawTimestamp := inc.UpdatedAt
	if len(inc.IncidentUpdates) > 0 {
		// updates arrive newest first
		latest := inc.IncidentUpdates[0]
		message = strings.TrimSpace(latest.Body)
		if message == "" {
			message = latest.Status
		}
		if message == "" {
			message = inc.Status
		}
		rawTimestamp = latest.DisplayAt
		if rawTimestamp == "" {
			rawTimestamp = latest.UpdatedAt
		}
		if rawTimestamp == "" {
			rawTimestamp = inc.UpdatedAt
		}
	}
	if message == "" {
		message = "unknown"
	}

	product := inc.Name
	if product == "" {
		product = "Unknown"
	}

	return bus.Event{
		Provider:  p.provider,
		Product:   product,
		Message:   message,
		Impact:    inc.Impact,
		Timestamp: NormalizeTimestamp(rawTimestamp),
	}, true
}

// warnPollFailure logs a transient poll failure with provider context.
func (p *IncidentPoller) warnPollFailure(feed string, resp Response) {
	attrs := []any{"provider", p.provider, "feed", feed}
	if resp.Error != nil {
		attrs = append(attrs, "error", resp.Error)
	} else {
		attrs = append(attrs, "http_status", resp.StatusCode)
	}
	p.logger.Warn("poll failed", attrs...)
}

// sleep waits for d or until ctx is cancelled. It reports false when the
// context ended first and the caller should exit its loop.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
