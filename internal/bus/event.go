package bus

import (
	"fmt"
	"strings"
)

// Event is a single observed status change: a new incident update or a
// component health transition. Immutable once constructed.
//
// This is the internal representation carried through the bus; the public
// statuswatch.StatusEvent mirrors it for SDK callbacks.
type Event struct {
	Provider  string
	Product   string
	Message   string
	Impact    string // optional; empty when the upstream incident carries none
	Timestamp string // canonical display form, e.g. "2024-01-01 00:00:00"
}

// Record renders the event as the human-readable multi-line form shared by
// the log sink, the replay buffer, and the streaming endpoints:
//
//	[2024-01-01 00:00:00] Product: OpenAI API - Chat Completions
//	  Status: Issue identified
//
// with an extra "  Impact: ..." line when the incident carries one.
func (e Event) Record() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] Product: %s - %s", e.Timestamp, e.Provider, e.Product)
	b.WriteString("\n  Status: ")
	b.WriteString(e.Message)
	if e.Impact != "" {
		b.WriteString("\n  Impact: ")
		b.WriteString(e.Impact)
	}
	return b.String()
}
