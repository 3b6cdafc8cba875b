package bus

import (
	"fmt"
	"testing"
)

func TestReplayBuffer_SnapshotOldestFirst(t *testing.T) {
	b := NewReplayBuffer(5)
	b.Append("one")
	b.Append("two")
	b.Append("three")

	got := b.Snapshot()
	want := []string{"one", "two", "three"}
	if len(got) != len(want) {
		t.Fatalf("Snapshot() = %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Snapshot()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReplayBuffer_EvictsOldest(t *testing.T) {
	b := NewReplayBuffer(3)
	for i := 1; i <= 5; i++ {
		b.Append(fmt.Sprintf("r%d", i))
	}

	got := b.Snapshot()
	want := []string{"r3", "r4", "r5"}
	if len(got) != 3 {
		t.Fatalf("Len after overflow = %d, want 3", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Snapshot()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReplayBuffer_ZeroMaxFallsBackToDefault(t *testing.T) {
	b := NewReplayBuffer(0)
	for i := 0; i < defaultReplayCapacity+10; i++ {
		b.Append("x")
	}
	if got := b.Len(); got != defaultReplayCapacity {
		t.Errorf("Len() = %d, want %d", got, defaultReplayCapacity)
	}
}

func TestReplayBuffer_SnapshotIsACopy(t *testing.T) {
	b := NewReplayBuffer(3)
	b.Append("original")

	snap := b.Snapshot()
	snap[0] = "mutated"

	if got := b.Snapshot()[0]; got != "original" {
		t.Errorf("buffer record = %q after mutating snapshot, want %q", got, "original")
	}
}
