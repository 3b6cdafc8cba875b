package poller

import "time"

// displayLayout is the canonical display form for event timestamps.
const displayLayout = "2006-01-02 15:04:05"

// timestampLayouts are the accepted upstream timestamp forms, tried in
// order. RFC 3339 covers the usual statuspage form including a trailing
// "Z"; the remaining layouts tolerate feeds that omit the zone.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// NormalizeTimestamp parses an ISO-8601 provider timestamp into the
// canonical "YYYY-MM-DD HH:MM:SS" display form.
//
// Empty input yields "unknown". Input that fails to parse under every
// accepted layout is passed through unchanged rather than failing: a
// strange-but-present upstream timestamp is still more useful than an
// error.
func NormalizeTimestamp(raw string) string {
	if raw == "" {
		return "unknown"
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(displayLayout)
		}
	}
	return raw
}
