package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// sseWriteTimeout is the maximum time allowed for a single SSE write.
// Without a deadline, a blocked write to a stalled client would prevent
// the handler from observing shutdown or disconnect.
const sseWriteTimeout = 5 * time.Second

// handleEvents streams records via Server-Sent Events.
//
// A new connection first receives every record currently in the replay
// buffer, oldest first, then a live tail of everything the bus fans out
// afterwards, until the client disconnects or the server shuts down.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	// deadline-aware write and flush without reaching into the underlying
	// connection
	rc := http.NewResponseController(w)
	deadlinesSupported := true

	writeRecord := func(record string) error {
		if deadlinesSupported {
			if err := rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout)); err != nil {
				s.logger.Warn("sse write deadlines not supported", "error", err)
				deadlinesSupported = false
			}
		}
		if err := writeSSE(w, record); err != nil {
			return err
		}
		return rc.Flush()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// replay recent records so late joiners aren't staring at a blank page
	for _, record := range s.bus.ReplaySnapshot() {
		if err := writeRecord(record); err != nil {
			return
		}
	}

	id, ch := s.bus.Subscribe()
	defer s.bus.Unsubscribe(id)

	for {
		select {
		case record := <-ch:
			if err := writeRecord(record); err != nil {
				return
			}
		case <-r.Context().Done():
			// fires on both client disconnect and server shutdown,
			// since request contexts derive from the server context
			return
		}
	}
}

// writeSSE frames one record as a single SSE event. Records span multiple
// lines, and SSE framing treats each line of the payload specially: a
// literal newline inside one data field would terminate the field early,
// so every line of the record becomes its own "data:" line within the
// event. Clients reassemble them with newlines per the SSE spec.
func writeSSE(w io.Writer, record string) error {
	for _, line := range strings.Split(record, "\n") {
		if _, err := fmt.Fprintf(w, "data: %s\n", line); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}
