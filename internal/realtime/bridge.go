package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vendemais/vendemais-backend/pkg/logger"
	pkgredis "github.com/vendemais/vendemais-backend/pkg/redis"
)

const bridgeChannel = "vm:events"

// Bridge carries events across processes over Redis pub/sub. Each API
// instance publishes through the bridge and runs a receive loop that feeds
// its local hub, so a subscriber sees events regardless of which instance
// produced them.
type Bridge struct {
	redis *pkgredis.Client
	hub   *Hub
	logg  *logger.Logger
}

func NewBridge(redisClient *pkgredis.Client, hub *Hub, logg *logger.Logger) (*Bridge, error) {
	if redisClient == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if hub == nil {
		return nil, fmt.Errorf("hub required")
	}
	return &Bridge{redis: redisClient, hub: hub, logg: logg}, nil
}

// Publish sends the event to every instance, including this one.
func (b *Bridge) Publish(ctx context.Context, event Event) error {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return b.redis.Publish(ctx, bridgeChannel, payload)
}

// Run consumes the shared channel until the context is canceled, fanning
// every received event into the local hub. Malformed payloads are logged and
// skipped.
func (b *Bridge) Run(ctx context.Context) error {
	sub, err := b.redis.Subscribe(ctx, bridgeChannel)
	if err != nil {
		return fmt.Errorf("subscribe events: %w", err)
	}
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				if b.logg != nil {
					b.logg.Warn(ctx, "discarding malformed realtime event")
				}
				continue
			}
			b.hub.Publish(ctx, event)
		}
	}
}
