package events

import (
	"testing"
	"time"

	"github.com/decred/slog"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	return New(slog.Disabled)
}

func TestPublishDeliversToSpectatorsAndPlayersWithOverride(t *testing.T) {
	b := newTestBus(t)
	spec := b.Subscribe(RoleSpectator, "")
	defer spec.Close()
	player := b.Subscribe(RolePlayer, "alice")
	defer player.Close()

	b.Publish(TypeHoleCardsDealt, "public view", map[string]any{"alice": "alice's hole cards"})

	select {
	case ev := <-spec.Recv():
		if ev.Payload != "public view" {
			t.Fatalf("got %v, want the public payload", ev.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for spectator delivery")
	}

	select {
	case ev := <-player.Recv():
		if ev.Payload != "alice's hole cards" {
			t.Fatalf("got %v, want alice's private payload", ev.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for player delivery")
	}
}

func TestPublishAssignsIncreasingSequenceNumbers(t *testing.T) {
	b := newTestBus(t)
	sub := b.Subscribe(RoleSpectator, "")
	defer sub.Close()

	for i := 0; i < 3; i++ {
		b.Publish(TypeChat, i, nil)
	}
	var last int64
	for i := 0; i < 3; i++ {
		ev := <-sub.Recv()
		if ev.Seq <= last {
			t.Fatalf("sequence did not increase: %d after %d", ev.Seq, last)
		}
		last = ev.Seq
	}
}

func TestOverflowingSubscriberIsDisconnected(t *testing.T) {
	b := newTestBus(t)
	sub := b.Subscribe(RoleSpectator, "")

	for i := 0; i < outboundCapacity+10; i++ {
		b.Publish(TypeChat, i, nil)
	}
	if b.SubscriberCount() != 0 {
		t.Fatalf("got %d subscribers, want 0 (overflowed subscriber should be dropped)", b.SubscriberCount())
	}
	open := true
	for open {
		_, open = <-sub.Recv()
	}
}

func TestActivityKeepsBoundedRecentHistory(t *testing.T) {
	b := newTestBus(t)
	for i := 0; i < activityRingSize+50; i++ {
		b.Publish(TypeChat, i, nil)
	}
	activity := b.Activity(0)
	if len(activity) != activityRingSize {
		t.Fatalf("got %d activity entries, want %d", len(activity), activityRingSize)
	}
	if activity[len(activity)-1].Payload != activityRingSize+49 {
		t.Fatalf("last activity entry is stale: %v", activity[len(activity)-1].Payload)
	}
}

func TestCloseStopsDelivery(t *testing.T) {
	b := newTestBus(t)
	sub := b.Subscribe(RoleSpectator, "")
	sub.Close()
	b.Publish(TypeChat, "hello", nil)
	if b.SubscriberCount() != 0 {
		t.Fatal("closed subscriber should not count toward subscribers")
	}
}
