package poller

import (
	"encoding/json"
	"fmt"
)

// flexID is an incident or component identifier. statuspage.io-compatible
// APIs serve ids as strings, but some feeds use bare numbers; both decode
// into the string form used by dedup tags and baseline keys.
type flexID string

// UnmarshalJSON implements json.Unmarshaler for flexID.
func (id *flexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = flexID(n.String())
		return nil
	}
	return fmt.Errorf("id must be a string or number, got %s", data)
}

// pageInfo carries the page-level metadata of an incidents feed. The
// updated_at value only moves when something on the page actually changed,
// which lets a poll cycle skip processing entirely.
type pageInfo struct {
	UpdatedAt string `json:"updated_at"`
}

// incidentUpdate is one time-ordered update within an incident. All fields
// are optional on the wire; missing values fall back to incident-level
// fields when building an event.
type incidentUpdate struct {
	Body      string `json:"body"`
	Status    string `json:"status"`
	DisplayAt string `json:"display_at"`
	UpdatedAt string `json:"updated_at"`
}

// incident is one upstream-reported disruption record. Updates arrive
// newest first.
type incident struct {
	ID              flexID           `json:"id"`
	Name            string           `json:"name"`
	Status          string           `json:"status"`
	Impact          string           `json:"impact"`
	UpdatedAt       string           `json:"updated_at"`
	IncidentUpdates []incidentUpdate `json:"incident_updates"`
}

// incidentsResponse is the payload of GET {base}/incidents.json.
type incidentsResponse struct {
	Page      pageInfo   `json:"page"`
	Incidents []incident `json:"incidents"`
}

// component is one upstream-reported sub-service whose health status
// changes independently of incidents.
type component struct {
	ID        flexID `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`
}

// componentsResponse is the payload of GET {base}/components.json.
type componentsResponse struct {
	Components []component `json:"components"`
}
