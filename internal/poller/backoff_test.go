package poller

import (
	"testing"
	"time"
)

func TestBackoff_DoublesUntilCap(t *testing.T) {
	b := NewBackoff(10 * time.Second)

	want := []time.Duration{
		10 * time.Second,
		20 * time.Second,
		40 * time.Second,
		80 * time.Second,
		160 * time.Second,
		300 * time.Second,
		300 * time.Second,
	}
	for i, w := range want {
		if got := b.Next(); got != w {
			t.Errorf("Next() call %d = %v, want %v", i+1, got, w)
		}
	}
}

func TestBackoff_ResetRestoresInterval(t *testing.T) {
	b := NewBackoff(10 * time.Second)

	b.Next()
	b.Next()
	b.Reset()

	if got := b.Next(); got != 10*time.Second {
		t.Errorf("Next() after Reset() = %v, want 10s", got)
	}
}

func TestIncidentJitter_Range(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := incidentJitter(30 * time.Second)
		if d < 0 || d >= 5*time.Second {
			t.Fatalf("incidentJitter(30s) = %v, want in [0, 5s)", d)
		}
	}

	// short intervals shrink the window
	for i := 0; i < 100; i++ {
		d := incidentJitter(2 * time.Second)
		if d < 0 || d >= 2*time.Second {
			t.Fatalf("incidentJitter(2s) = %v, want in [0, 2s)", d)
		}
	}
}

func TestComponentJitter_Range(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := componentJitter(30 * time.Second)
		if d < 2*time.Second || d >= 7*time.Second {
			t.Fatalf("componentJitter(30s) = %v, want in [2s, 7s)", d)
		}
	}

	// an interval below the window floor collapses to the interval itself
	if d := componentJitter(time.Second); d != time.Second {
		t.Errorf("componentJitter(1s) = %v, want 1s", d)
	}
}
