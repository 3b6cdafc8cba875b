// Package server provides the HTTP surface for statuswatch.
//
// This package is internal to statuswatch and handles all HTTP concerns:
//
//   - Viewer serving: the embedded HTML/JS event log at "/"
//   - Server-Sent Events: replay plus live tail at "/events"
//   - WebSocket: the same stream contract at "/ws"
//   - Health: liveness and stream counters at "/api/health"
//
// Both streaming transports deliver one frame per event record. A record
// is multi-line, so the SSE handler frames each line as its own "data:"
// field within one event rather than embedding raw newlines.
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
package server
