package server

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/statuswatch/statuswatch/internal/bus"
)

const (
	// defaultTitle is used when no custom title is configured.
	defaultTitle = "statuswatch"

	// titlePlaceholder is the marker in HTML that gets replaced with the
	// actual title.
	titlePlaceholder = "{{.Title}}"
)

// Server handles HTTP requests for the statuswatch viewer and stream.
//
// Server provides four endpoints:
//   - GET /: serves the embedded viewer HTML
//   - GET /events: Server-Sent Events stream (replay, then live tail)
//   - GET /ws: WebSocket stream with the same contract
//   - GET /api/health: liveness and stream counters as JSON
//
// The server shuts down gracefully via context cancellation.
type Server struct {
	bus           *bus.Bus
	port          int
	providerCount int
	assets        fs.FS
	title         string
	logger        *slog.Logger
	httpServer    *http.Server
}

// NewServer creates a new HTTP [Server] streaming from b. assets may be
// nil to disable the viewer page.
func NewServer(b *bus.Bus, port, providerCount int, assets fs.FS, title string, logger *slog.Logger) *Server {
	return &Server{
		bus:           b,
		port:          port,
		providerCount: providerCount,
		assets:        assets,
		title:         title,
		logger:        logger,
	}
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns after the listener is bound, so a
// port conflict surfaces as an error here rather than later. The server
// runs until ctx is cancelled, then shuts down gracefully with a 5-second
// timeout.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/ws", s.handleWS)
	if s.assets != nil {
		mux.HandleFunc("/", s.handleIndex)
	}

	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}

	s.httpServer = &http.Server{
		Handler: mux,
		// BaseContext derives all request contexts from the server
		// context, so cancelling ctx also ends long-running streaming
		// handlers.
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// handleIndex serves the viewer page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	content, err := fs.ReadFile(s.assets, "assets/index.html")
	if err != nil {
		http.Error(w, "viewer not found", http.StatusInternalServerError)
		return
	}

	title := s.title
	if title == "" {
		title = defaultTitle
	}
	// escape before substitution to prevent XSS via configured titles
	rendered := strings.ReplaceAll(string(content), titlePlaceholder, html.EscapeString(title))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err = w.Write([]byte(rendered)); err != nil {
		s.logger.Error("failed to write viewer response", "error", err)
	}
}

// healthResponse is the JSON body of /api/health.
type healthResponse struct {
	Status         string `json:"status"`
	Providers      int    `json:"providers"`
	EventsBuffered int    `json:"events_buffered"`
	Subscribers    int    `json:"subscribers"`
	EventsDropped  uint64 `json:"events_dropped"`
}

// handleHealth reports overall liveness and stream counters.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := healthResponse{
		Status:         "ok",
		Providers:      s.providerCount,
		EventsBuffered: s.bus.BufferedRecords(),
		Subscribers:    s.bus.Subscribers(),
		EventsDropped:  s.bus.DroppedRecords(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("failed to encode health response", "error", err)
	}
}
