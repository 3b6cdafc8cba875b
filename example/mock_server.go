package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

// mockStatusPage simulates a statuspage.io-compatible API whose incidents
// and component statuses evolve over time.
type mockStatusPage struct {
	mu            sync.Mutex
	pageUpdatedAt time.Time
	updates       int
	compStatusIdx int
	nextChangeAt  time.Time
}

var componentStatuses = []string{"operational", "degraded_performance", "partial_outage", "operational"}

// StartMockStatusServer runs a mock status page on addr. The single open
// incident gains a new update every 30-60 seconds, and the API component
// cycles through statuses on the same schedule.
// Call this in a goroutine before creating statuswatch providers.
func StartMockStatusServer(addr string) {
	m := &mockStatusPage{
		pageUpdatedAt: time.Now(),
		updates:       1,
		nextChangeAt:  time.Now().Add(time.Duration(30+rand.Intn(31)) * time.Second),
	}

	http.HandleFunc("/api/v2/incidents.json", m.handleIncidents)
	http.HandleFunc("/api/v2/components.json", m.handleComponents)

	if err := http.ListenAndServe(addr, nil); err != nil {
		slog.Error("mock server error", "error", err)
	}
}

// advance moves the simulation forward when the scheduled change time has
// passed. Callers must hold m.mu.
func (m *mockStatusPage) advance() {
	if time.Now().Before(m.nextChangeAt) {
		return
	}
	m.updates++
	m.compStatusIdx = (m.compStatusIdx + 1) % len(componentStatuses)
	m.pageUpdatedAt = time.Now()
	m.nextChangeAt = time.Now().Add(time.Duration(30+rand.Intn(31)) * time.Second)
	slog.Info("mock status change", "updates", m.updates, "component_status", componentStatuses[m.compStatusIdx])
}

func (m *mockStatusPage) handleIncidents(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.advance()

	updates := make([]map[string]any, 0, m.updates)
	for i := m.updates; i >= 1; i-- { // newest first
		updates = append(updates, map[string]any{
			"body":       fmt.Sprintf("Investigation update #%d", i),
			"status":     "investigating",
			"display_at": m.pageUpdatedAt.UTC().Format(time.RFC3339),
			"updated_at": m.pageUpdatedAt.UTC().Format(time.RFC3339),
		})
	}

	resp := map[string]any{
		"page": map[string]any{
			"updated_at": m.pageUpdatedAt.UTC().Format(time.RFC3339),
		},
		"incidents": []map[string]any{
			{
				"id":               "demo-incident-1",
				"name":             "Elevated error rates",
				"status":           "investigating",
				"impact":           "minor",
				"updated_at":       m.pageUpdatedAt.UTC().Format(time.RFC3339),
				"incident_updates": updates,
			},
		},
	}
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func (m *mockStatusPage) handleComponents(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.advance()

	resp := map[string]any{
		"components": []map[string]any{
			{
				"id":         "comp-api",
				"name":       "API",
				"status":     componentStatuses[m.compStatusIdx],
				"updated_at": m.pageUpdatedAt.UTC().Format(time.RFC3339),
			},
			{
				"id":         "comp-web",
				"name":       "Web",
				"status":     "operational",
				"updated_at": m.pageUpdatedAt.UTC().Format(time.RFC3339),
			},
		},
	}
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
