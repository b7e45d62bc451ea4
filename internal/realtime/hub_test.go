package realtime

import (
	"context"
	"testing"
	"time"
)

func TestHubFanOut(t *testing.T) {
	t.Parallel()

	hub := NewHub(4)
	ctx := context.Background()
	topic := StoreTopic("loja-1")

	a := hub.Subscribe(topic)
	b := hub.Subscribe(topic)
	other := hub.Subscribe(StoreTopic("loja-2"))
	defer a.Close()
	defer b.Close()
	defer other.Close()

	hub.Publish(ctx, Event{Topic: topic, Type: "stock_changed"})

	for name, sub := range map[string]*Subscription{"a": a, "b": b} {
		select {
		case event := <-sub.C:
			if event.Type != "stock_changed" {
				t.Fatalf("subscriber %s got unexpected event %+v", name, event)
			}
			if event.At.IsZero() {
				t.Fatalf("expected publish to stamp At")
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %s never received the event", name)
		}
	}

	select {
	case event := <-other.C:
		t.Fatalf("other topic must not receive: %+v", event)
	default:
	}
}

func TestHubDropsOldestWhenFull(t *testing.T) {
	t.Parallel()

	hub := NewHub(2)
	ctx := context.Background()
	topic := StoreTopic("loja-3")

	sub := hub.Subscribe(topic)
	defer sub.Close()

	hub.Publish(ctx, Event{Topic: topic, Type: "first"})
	hub.Publish(ctx, Event{Topic: topic, Type: "second"})
	hub.Publish(ctx, Event{Topic: topic, Type: "third"})

	got := []string{(<-sub.C).Type, (<-sub.C).Type}
	if got[0] != "second" || got[1] != "third" {
		t.Fatalf("expected oldest dropped, got %v", got)
	}
}

func TestHubCloseDetaches(t *testing.T) {
	t.Parallel()

	hub := NewHub(2)
	ctx := context.Background()
	topic := StoreTopic("loja-4")

	sub := hub.Subscribe(topic)
	sub.Close()
	sub.Close() // safe to call twice

	hub.Publish(ctx, Event{Topic: topic, Type: "after_close"})

	if _, ok := <-sub.C; ok {
		t.Fatal("expected a closed, drained channel")
	}
}
