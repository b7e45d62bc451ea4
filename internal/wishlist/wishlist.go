package wishlist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/vendemais/vendemais-backend/pkg/errors"
	"github.com/vendemais/vendemais-backend/pkg/logger"
	pkgredis "github.com/vendemais/vendemais-backend/pkg/redis"
)

// ProductSummary is the denormalized product snapshot kept with each entry.
type ProductSummary struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	PriceCents int       `json:"price_cents"`
	ImageURL   *string   `json:"image_url,omitempty"`
}

// Entry is one liked product: {id, product, added_at} as stored.
type Entry struct {
	ID      uuid.UUID      `json:"id"`
	Product ProductSummary `json:"product"`
	AddedAt time.Time      `json:"added_at"`
}

// Backend persists the serialized wishlist for a session within one store.
type Backend interface {
	Load(ctx context.Context, storeID uuid.UUID, sessionID string) ([]byte, error)
	Save(ctx context.Context, storeID uuid.UUID, sessionID string, payload []byte) error
	Delete(ctx context.Context, storeID uuid.UUID, sessionID string) error
}

// RedisBackend is the production wishlist backend.
type RedisBackend struct {
	client *pkgredis.Client
	ttl    time.Duration
}

// NewRedisBackend builds a redis-backed wishlist store.
func NewRedisBackend(client *pkgredis.Client, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl}
}

func (b *RedisBackend) Load(ctx context.Context, storeID uuid.UUID, sessionID string) ([]byte, error) {
	value, err := b.client.Get(ctx, b.client.WishlistKey(storeID.String(), sessionID))
	if err != nil {
		if pkgredis.IsNil(err) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(value), nil
}

func (b *RedisBackend) Save(ctx context.Context, storeID uuid.UUID, sessionID string, payload []byte) error {
	return b.client.Set(ctx, b.client.WishlistKey(storeID.String(), sessionID), payload, b.ttl)
}

func (b *RedisBackend) Delete(ctx context.Context, storeID uuid.UUID, sessionID string) error {
	return b.client.Del(ctx, b.client.WishlistKey(storeID.String(), sessionID))
}

// Service manages session wishlists.
type Service struct {
	backend Backend
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds the wishlist service.
func NewService(backend Backend, logg *logger.Logger) (*Service, error) {
	if backend == nil {
		return nil, fmt.Errorf("wishlist backend required")
	}
	return &Service{backend: backend, logg: logg, now: time.Now}, nil
}

// load reads the stored entries; corrupt payloads reset to empty.
func (s *Service) load(ctx context.Context, storeID uuid.UUID, sessionID string) ([]Entry, error) {
	payload, err := s.backend.Load(ctx, storeID, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist")
	}
	if len(payload) == 0 {
		return nil, nil
	}
	var entries []Entry
	if err := json.Unmarshal(payload, &entries); err != nil {
		if s.logg != nil {
			warnCtx := s.logg.WithSessionID(ctx, sessionID)
			s.logg.Warn(warnCtx, "discarding corrupt wishlist payload")
		}
		return nil, nil
	}
	return entries, nil
}

func (s *Service) save(ctx context.Context, storeID uuid.UUID, sessionID string, entries []Entry) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode wishlist")
	}
	if err := s.backend.Save(ctx, storeID, sessionID, payload); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save wishlist")
	}
	return nil
}

// List returns the session's entries, newest last.
func (s *Service) List(ctx context.Context, storeID uuid.UUID, sessionID string) ([]Entry, error) {
	entries, err := s.load(ctx, storeID, sessionID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Add appends the product; adding a product already present is a no-op.
func (s *Service) Add(ctx context.Context, storeID uuid.UUID, sessionID string, product ProductSummary) ([]Entry, error) {
	if product.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	entries, err := s.load(ctx, storeID, sessionID)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.ID == product.ID {
			return entries, nil
		}
	}
	entries = append(entries, Entry{ID: product.ID, Product: product, AddedAt: s.now().UTC()})
	if err := s.save(ctx, storeID, sessionID, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Remove drops the entry for the product if present.
func (s *Service) Remove(ctx context.Context, storeID uuid.UUID, sessionID string, productID uuid.UUID) ([]Entry, error) {
	entries, err := s.load(ctx, storeID, sessionID)
	if err != nil {
		return nil, err
	}
	kept := entries[:0]
	for _, entry := range entries {
		if entry.ID != productID {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(entries) {
		if kept == nil {
			kept = []Entry{}
		}
		return kept, nil
	}
	if err := s.save(ctx, storeID, sessionID, kept); err != nil {
		return nil, err
	}
	return kept, nil
}
