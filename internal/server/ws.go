package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// wsWriteTimeout is the deadline for a single write to a client.
	wsWriteTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong before treating the
	// connection as dead.
	pongWait = 60 * time.Second

	// pingPeriod controls how often ping frames are sent. Must be less
	// than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Allow all origins; apply CORS at the reverse-proxy level if needed.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWS streams records over a WebSocket connection, one text message
// per record. The contract matches /events: the replay buffer first,
// oldest to newest, then the live tail until the connection closes.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response
		return
	}
	defer conn.Close()

	// close the connection on server shutdown to unblock the read loop
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-r.Context().Done():
			conn.Close()
		case <-stop:
		}
	}()

	for _, record := range s.bus.ReplaySnapshot() {
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(record)); err != nil {
			return
		}
	}

	id, ch := s.bus.Subscribe()
	defer s.bus.Unsubscribe(id)

	go wsWritePump(conn, ch, stop)
	wsReadPump(conn) // blocks until the connection closes
}

// wsWritePump forwards records from the subscriber channel to the
// connection and sends periodic ping frames. Runs in its own goroutine
// per client; a write error closes the connection, which in turn ends the
// read pump and the handler.
func wsWritePump(conn *websocket.Conn, ch <-chan string, stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case record := <-ch:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(record)); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-stop:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
			return
		}
	}
}

// wsReadPump reads frames to process control messages (pong, close) and
// detect disconnects. Blocks until the connection closes.
func wsReadPump(conn *websocket.Conn) {
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
