package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/statuswatch/statuswatch/internal/bus"
)

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestBus returns a running bus and its cancel func.
func newTestBus(t *testing.T) (*bus.Bus, context.CancelFunc) {
	t.Helper()
	b := bus.New(nil, testLogger(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	go b.Run(ctx)
	return b, cancel
}

// publishAndWait publishes an event and blocks until the bus has
// dispatched it into the replay buffer.
func publishAndWait(t *testing.T, b *bus.Bus, ev bus.Event) {
	t.Helper()
	want := b.BufferedRecords() + 1
	b.Publish(ev)
	deadline := time.After(2 * time.Second)
	for b.BufferedRecords() < want {
		select {
		case <-deadline:
			t.Fatal("event not dispatched within 2s")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestHandleHealth(t *testing.T) {
	b, cancel := newTestBus(t)
	defer cancel()

	publishAndWait(t, b, bus.Event{Provider: "Acme", Product: "API", Message: "down", Timestamp: "2024-01-01 00:00:00"})

	s := NewServer(b, 0, 3, nil, "", testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
	if body.Providers != 3 {
		t.Errorf("providers = %d, want 3", body.Providers)
	}
	if body.EventsBuffered != 1 {
		t.Errorf("events_buffered = %d, want 1", body.EventsBuffered)
	}
}

func TestHandleHealth_MethodNotAllowed(t *testing.T) {
	b, cancel := newTestBus(t)
	defer cancel()

	s := NewServer(b, 0, 1, nil, "", testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHandleIndex_SubstitutesAndEscapesTitle(t *testing.T) {
	b, cancel := newTestBus(t)
	defer cancel()

	assets := fstest.MapFS{
		"assets/index.html": &fstest.MapFile{Data: []byte("<title>{{.Title}}</title>")},
	}
	s := NewServer(b, 0, 1, assets, `Status <script>`, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.handleIndex(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	got := rec.Body.String()
	want := "<title>Status &lt;script&gt;</title>"
	if got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

func TestHandleIndex_DefaultTitle(t *testing.T) {
	b, cancel := newTestBus(t)
	defer cancel()

	assets := fstest.MapFS{
		"assets/index.html": &fstest.MapFile{Data: []byte("{{.Title}}")},
	}
	s := NewServer(b, 0, 1, assets, "", testLogger())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.handleIndex(rec, req)

	if got := rec.Body.String(); got != "statuswatch" {
		t.Errorf("body = %q, want default title", got)
	}
}

func TestHandleIndex_UnknownPathIs404(t *testing.T) {
	b, cancel := newTestBus(t)
	defer cancel()

	assets := fstest.MapFS{
		"assets/index.html": &fstest.MapFile{Data: []byte("x")},
	}
	s := NewServer(b, 0, 1, assets, "", testLogger())

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	s.handleIndex(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
