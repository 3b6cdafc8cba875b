package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/statuswatch/statuswatch/internal/bus"
)

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func TestHandleWS_ReplayThenLive(t *testing.T) {
	b, cancelBus := newTestBus(t)
	defer cancelBus()

	replayed := bus.Event{Provider: "Acme", Product: "API", Message: "earlier", Timestamp: "2024-01-01 00:00:00"}
	publishAndWait(t, b, replayed)

	s := NewServer(b, 0, 1, nil, "", testLogger())
	srv := httptest.NewServer(http.HandlerFunc(s.handleWS))
	defer srv.Close()

	conn := dialWS(t, srv)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	kind, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading replay: %v", err)
	}
	if kind != websocket.TextMessage {
		t.Errorf("message type = %d, want text", kind)
	}
	if string(msg) != replayed.Record() {
		t.Errorf("replayed record = %q, want %q", msg, replayed.Record())
	}

	live := bus.Event{Provider: "Acme", Product: "API", Message: "now", Timestamp: "2024-01-01 00:01:00"}
	b.Publish(live)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err = conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading live record: %v", err)
	}
	if string(msg) != live.Record() {
		t.Errorf("live record = %q, want %q", msg, live.Record())
	}
}

func TestHandleWS_CloseReleasesSubscriber(t *testing.T) {
	b, cancelBus := newTestBus(t)
	defer cancelBus()

	s := NewServer(b, 0, 1, nil, "", testLogger())
	srv := httptest.NewServer(http.HandlerFunc(s.handleWS))
	defer srv.Close()

	conn := dialWS(t, srv)

	deadline := time.After(2 * time.Second)
	for b.Subscribers() == 0 {
		select {
		case <-deadline:
			t.Fatal("subscriber never registered")
		case <-time.After(10 * time.Millisecond):
		}
	}

	conn.Close()

	deadline = time.After(2 * time.Second)
	for b.Subscribers() != 0 {
		select {
		case <-deadline:
			t.Fatal("subscriber not released after close")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestHandleWS_RejectsPlainHTTP(t *testing.T) {
	b, cancelBus := newTestBus(t)
	defer cancelBus()

	s := NewServer(b, 0, 1, nil, "", testLogger())
	srv := httptest.NewServer(http.HandlerFunc(s.handleWS))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for non-websocket request", resp.StatusCode)
	}
}
