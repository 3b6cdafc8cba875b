package bus

import "testing"

func TestRegistry_SubscribeAndBroadcast(t *testing.T) {
	r := NewRegistry()

	id1, ch1 := r.Subscribe()
	_, ch2 := r.Subscribe()
	if r.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", r.Count())
	}

	r.broadcast("hello")

	for i, ch := range []<-chan string{ch1, ch2} {
		select {
		case got := <-ch:
			if got != "hello" {
				t.Errorf("subscriber %d received %q, want %q", i, got, "hello")
			}
		default:
			t.Errorf("subscriber %d received nothing", i)
		}
	}

	r.Unsubscribe(id1)
	if r.Count() != 1 {
		t.Errorf("Count() after Unsubscribe = %d, want 1", r.Count())
	}
}

func TestRegistry_UnsubscribeUnknownID(t *testing.T) {
	r := NewRegistry()
	r.Unsubscribe("no-such-id")
	r.Unsubscribe("no-such-id")
}

func TestRegistry_FullSubscriberDropsWithoutBlocking(t *testing.T) {
	r := NewRegistry()

	_, slow := r.Subscribe()
	_, fast := r.Subscribe()

	// fill the slow subscriber's channel
	for i := 0; i < subscriberBuffer; i++ {
		r.broadcast("fill")
	}
	// drain the fast one so it has room again
	for i := 0; i < subscriberBuffer; i++ {
		<-fast
	}

	before := r.Dropped()
	r.broadcast("overflow")

	if got := r.Dropped(); got != before+1 {
		t.Errorf("Dropped() = %d, want %d", got, before+1)
	}

	// the healthy subscriber still got the record
	select {
	case got := <-fast:
		if got != "overflow" {
			t.Errorf("fast subscriber received %q, want %q", got, "overflow")
		}
	default:
		t.Error("fast subscriber received nothing")
	}

	// the slow channel still holds only its original fill
	if len(slow) != subscriberBuffer {
		t.Errorf("slow channel depth = %d, want %d", len(slow), subscriberBuffer)
	}
}

func TestRegistry_BroadcastWithNoSubscribers(t *testing.T) {
	r := NewRegistry()
	r.broadcast("into the void")
	if r.Dropped() != 0 {
		t.Errorf("Dropped() = %d, want 0", r.Dropped())
	}
}
