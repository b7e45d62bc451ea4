package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/vendemais/vendemais-backend/pkg/logger"
)

// Item is one cart line. The denormalized name and unit price are snapshots
// taken when the line was added.
type Item struct {
	ID             string     `json:"id"`
	ProductID      uuid.UUID  `json:"product_id"`
	VariationID    *uuid.UUID `json:"variation_id,omitempty"`
	Name           string     `json:"name"`
	VariationName  *string    `json:"variation_name,omitempty"`
	Qty            int        `json:"qty"`
	UnitPriceCents int        `json:"unit_price_cents"`
}

// ItemRef identifies what is being added to the cart.
type ItemRef struct {
	ProductID      uuid.UUID
	VariationID    *uuid.UUID
	Name           string
	VariationName  *string
	UnitPriceCents int
}

// LineID derives the stable cart line id for the ref.
func (r ItemRef) LineID() string {
	if r.VariationID != nil {
		return fmt.Sprintf("%s:%s", r.ProductID, *r.VariationID)
	}
	return r.ProductID.String()
}

// Totals are derived values, recomputed from the current items on every call.
type Totals struct {
	ItemCount     int `json:"item_count"`
	SubtotalCents int `json:"subtotal_cents"`
}

// Backend persists the serialized item collection for a session within one
// store. Keys are scoped by both ids so a session browsing two storefronts
// never sees its carts bleed into each other.
type Backend interface {
	Load(ctx context.Context, storeID uuid.UUID, sessionID string) ([]byte, error)
	Save(ctx context.Context, storeID uuid.UUID, sessionID string, payload []byte) error
	Delete(ctx context.Context, storeID uuid.UUID, sessionID string) error
}

// Store holds one session's cart. It is an explicitly constructed object:
// callers create it per session and inject it where needed, never reach for
// package-level state. Items keep insertion order; line ids are unique.
//
// The open flag is UI visibility state and is never persisted.
type Store struct {
	storeID   uuid.UUID
	sessionID string
	backend   Backend
	logg      *logger.Logger
	items     []Item
	open      bool
}

// NewStore loads the session's persisted cart for one storefront. A corrupt
// or non-array stored value resets to an empty cart: storage corruption is
// recovered locally, never surfaced as an error.
func NewStore(ctx context.Context, storeID uuid.UUID, sessionID string, backend Backend, logg *logger.Logger) (*Store, error) {
	if storeID == uuid.Nil {
		return nil, fmt.Errorf("store id required")
	}
	if sessionID == "" {
		return nil, fmt.Errorf("session id required")
	}
	if backend == nil {
		return nil, fmt.Errorf("cart backend required")
	}

	s := &Store{storeID: storeID, sessionID: sessionID, backend: backend, logg: logg}

	payload, err := backend.Load(ctx, storeID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(payload) == 0 {
		return s, nil
	}

	var items []Item
	if err := json.Unmarshal(payload, &items); err != nil {
		if logg != nil {
			warnCtx := logg.WithSessionID(ctx, sessionID)
			logg.Warn(warnCtx, "discarding corrupt cart payload")
		}
		return s, nil
	}
	s.items = sanitize(items)
	return s, nil
}

// sanitize drops entries that violate the cart invariants (qty >= 1,
// non-negative price, unique line ids) so a tampered payload cannot smuggle
// them back in.
func sanitize(items []Item) []Item {
	seen := make(map[string]struct{}, len(items))
	kept := items[:0]
	for _, item := range items {
		if item.Qty < 1 || item.UnitPriceCents < 0 || item.ID == "" {
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		kept = append(kept, item)
	}
	return kept
}

// AddItem appends a line, or adjusts the quantity of an existing line for the
// same product/variation by qty (which may be negative). A delta that would
// drive the quantity negative is a silent no-op. Stock limits are not
// enforced here; callers check availability first.
func (s *Store) AddItem(ctx context.Context, ref ItemRef, qty int) error {
	if ref.UnitPriceCents < 0 {
		return nil
	}
	id := ref.LineID()
	for i, item := range s.items {
		if item.ID != id {
			continue
		}
		next := item.Qty + qty
		if next < 0 {
			return nil
		}
		if next == 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return s.persist(ctx)
		}
		s.items[i].Qty = next
		return s.persist(ctx)
	}
	if qty <= 0 {
		return nil
	}
	s.items = append(s.items, Item{
		ID:             id,
		ProductID:      ref.ProductID,
		VariationID:    ref.VariationID,
		Name:           ref.Name,
		VariationName:  ref.VariationName,
		Qty:            qty,
		UnitPriceCents: ref.UnitPriceCents,
	})
	return s.persist(ctx)
}

// UpdateQuantity sets an absolute quantity; qty <= 0 removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, itemID string, qty int) error {
	for i, item := range s.items {
		if item.ID != itemID {
			continue
		}
		if qty <= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		} else {
			s.items[i].Qty = qty
		}
		return s.persist(ctx)
	}
	return nil
}

// RemoveItem drops the line if present.
func (s *Store) RemoveItem(ctx context.Context, itemID string) error {
	return s.UpdateQuantity(ctx, itemID, 0)
}

// Clear empties the cart and deletes the persisted document.
func (s *Store) Clear(ctx context.Context) error {
	s.items = nil
	return s.backend.Delete(ctx, s.storeID, s.sessionID)
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Totals recomputes the derived totals from the current items.
func (s *Store) Totals() Totals {
	totals := Totals{}
	for _, item := range s.items {
		totals.ItemCount++
		totals.SubtotalCents += item.Qty * item.UnitPriceCents
	}
	return totals
}

// Open marks the cart drawer visible.
func (s *Store) Open() { s.open = true }

// Close hides the cart drawer.
func (s *Store) Close() { s.open = false }

// Toggle flips drawer visibility.
func (s *Store) Toggle() { s.open = !s.open }

// IsOpen reports drawer visibility.
func (s *Store) IsOpen() bool { return s.open }

// persist re-serializes the full item collection after every mutation.
func (s *Store) persist(ctx context.Context) error {
	payload, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.backend.Save(ctx, s.storeID, s.sessionID, payload); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
