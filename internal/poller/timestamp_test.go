package poller

import "testing"

func TestNormalizeTimestamp(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"rfc3339 with Z", "2024-01-01T00:00:00Z", "2024-01-01 00:00:00"},
		{"rfc3339 with offset", "2024-03-15T08:30:00+00:00", "2024-03-15 08:30:00"},
		{"fractional seconds", "2024-01-01T12:34:56.789Z", "2024-01-01 12:34:56"},
		{"no zone", "2024-06-01T09:15:30", "2024-06-01 09:15:30"},
		{"space separated", "2024-06-01 09:15:30", "2024-06-01 09:15:30"},
		{"empty", "", "unknown"},
		{"garbage passes through", "not-a-timestamp", "not-a-timestamp"},
		{"date only passes through", "2024-01-01", "2024-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTimestamp(tt.raw); got != tt.want {
				t.Errorf("NormalizeTimestamp(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
