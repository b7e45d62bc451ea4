package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

const defaultBufferSize = 16

// Event is one storefront update pushed to live subscribers.
type Event struct {
	Topic   string          `json:"topic"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	At      time.Time       `json:"at"`
}

// StoreTopic names the per-tenant event stream.
func StoreTopic(storeID string) string {
	return "store:" + storeID
}

// Subscription is one receiver on a topic. Events arrive on C; Close detaches
// the receiver and is safe to call more than once.
type Subscription struct {
	C <-chan Event

	hub   *Hub
	topic string
	ch    chan Event
	once  sync.Once
}

// Close detaches the subscription from its hub.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.unsubscribe(s)
		close(s.ch)
	})
}

// Hub fans events out to in-process subscribers. A slow subscriber never
// blocks publishing: when its buffer is full the oldest buffered event is
// dropped to make room for the newest.
type Hub struct {
	mu         sync.Mutex
	subs       map[string]map[*Subscription]struct{}
	bufferSize int
}

func NewHub(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Hub{
		subs:       make(map[string]map[*Subscription]struct{}),
		bufferSize: bufferSize,
	}
}

// Subscribe registers a new receiver for the topic.
func (h *Hub) Subscribe(topic string) *Subscription {
	sub := &Subscription{
		hub:   h,
		topic: topic,
		ch:    make(chan Event, h.bufferSize),
	}
	sub.C = sub.ch

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[*Subscription]struct{})
	}
	h.subs[topic][sub] = struct{}{}
	return sub
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[sub.topic]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, sub.topic)
		}
	}
}

// Publish delivers the event to every subscriber of its topic.
func (h *Hub) Publish(_ context.Context, event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[event.Topic] {
		for {
			select {
			case sub.ch <- event:
			default:
				// Buffer full: drop the oldest and retry.
				select {
				case <-sub.ch:
				default:
				}
				continue
			}
			break
		}
	}
}
