package cart

import (
	"context"
	"time"

	"github.com/google/uuid"

	pkgredis "github.com/vendemais/vendemais-backend/pkg/redis"
)

// RedisBackend stores cart documents under the store-and-session-scoped cart
// key with a sliding TTL, so abandoned sessions age out on their own.
type RedisBackend struct {
	client *pkgredis.Client
	ttl    time.Duration
}

// NewRedisBackend builds the production cart backend.
func NewRedisBackend(client *pkgredis.Client, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl}
}

// Load fetches the raw document; a missing key is not an error.
func (b *RedisBackend) Load(ctx context.Context, storeID uuid.UUID, sessionID string) ([]byte, error) {
	value, err := b.client.Get(ctx, b.client.CartKey(storeID.String(), sessionID))
	if err != nil {
		if pkgredis.IsNil(err) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(value), nil
}

// Save writes the document and refreshes the session TTL.
func (b *RedisBackend) Save(ctx context.Context, storeID uuid.UUID, sessionID string, payload []byte) error {
	return b.client.Set(ctx, b.client.CartKey(storeID.String(), sessionID), payload, b.ttl)
}

// Delete drops the document.
func (b *RedisBackend) Delete(ctx context.Context, storeID uuid.UUID, sessionID string) error {
	return b.client.Del(ctx, b.client.CartKey(storeID.String(), sessionID))
}
