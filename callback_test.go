package statuswatch

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a goroutine-safe sink for end-to-end assertions.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatcher_EndToEndCallback(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/incidents.json":
			w.Write([]byte(`{
				"page": {"updated_at": "2024-01-01T00:00:00Z"},
				"incidents": [{
					"id": "inc-1",
					"name": "Chat Completions",
					"status": "investigating",
					"impact": "major",
					"incident_updates": [{"body": "Issue identified", "display_at": "2024-01-01T00:00:00Z"}]
				}]
			}`))
		case "/components.json":
			w.Write([]byte(`{"components": []}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer feed.Close()

	provider, err := NewProvider("Acme", feed.URL)
	if err != nil {
		t.Fatal(err)
	}

	events := make(chan StatusEvent, 8)
	sink := &syncBuffer{}

	w, err := New(
		WithProvider(provider),
		WithPollInterval(time.Second),
		WithPort(19474),
		WithLogger(testLogger()),
		WithEventSink(sink),
		WithEventCallback(func(ev StatusEvent) { events <- ev }),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan error, 1)
	go func() { started <- w.Start(ctx) }()

	var got StatusEvent
	select {
	case got = <-events:
	case <-time.After(10 * time.Second):
		cancel()
		t.Fatal("no event delivered within 10s")
	}

	if got.Provider != "Acme" {
		t.Errorf("Provider = %q", got.Provider)
	}
	if got.Product != "Chat Completions" {
		t.Errorf("Product = %q", got.Product)
	}
	if got.Message != "Issue identified" {
		t.Errorf("Message = %q", got.Message)
	}
	if got.Impact != "major" {
		t.Errorf("Impact = %q", got.Impact)
	}
	if got.Timestamp != "2024-01-01 00:00:00" {
		t.Errorf("Timestamp = %q", got.Timestamp)
	}

	// the sink received the formatted record before the callback fired
	if !strings.Contains(sink.String(), "Product: Acme - Chat Completions") {
		t.Errorf("sink = %q, want formatted record", sink.String())
	}

	cancel()
	select {
	case err := <-started:
		if err != nil {
			t.Errorf("Start() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after cancellation")
	}
}
