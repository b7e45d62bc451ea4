package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgerrors "github.com/vendemais/vendemais-backend/pkg/errors"
)

type fakeLoader struct {
	snapshots map[uuid.UUID]ProductSnapshot
}

func (f *fakeLoader) FindForSale(_ context.Context, _, productID uuid.UUID, _ *uuid.UUID) (ProductSnapshot, error) {
	snapshot, ok := f.snapshots[productID]
	if !ok {
		return ProductSnapshot{}, gorm.ErrRecordNotFound
	}
	return snapshot, nil
}

func newCartService(t *testing.T, snapshots ...ProductSnapshot) *Service {
	t.Helper()
	loader := &fakeLoader{snapshots: map[uuid.UUID]ProductSnapshot{}}
	for _, s := range snapshots {
		loader.snapshots[s.ProductID] = s
	}
	svc, err := NewService(newFakeBackend(), loader, nil)
	require.NoError(t, err)
	return svc
}

func TestServiceAddItemBuildsLineFromSnapshot(t *testing.T) {
	t.Parallel()

	snapshot := ProductSnapshot{
		ProductID:      uuid.New(),
		Name:           "Caneca Azul",
		UnitPriceCents: 2500,
		Available:      10,
	}
	svc := newCartService(t, snapshot)
	ctx := context.Background()
	storeID := uuid.New()

	cart, err := svc.AddItem(ctx, "sess-1", storeID, snapshot.ProductID, nil, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	require.Equal(t, "Caneca Azul", cart.Items[0].Name)
	require.Equal(t, 2, cart.Items[0].Qty)
	require.Equal(t, 5000, cart.Totals.SubtotalCents)

	// Carts are persisted per session and store, not per service call.
	cart, err = svc.Get(ctx, storeID, "sess-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
}

func TestServiceAddItemCapsAtAvailableStock(t *testing.T) {
	t.Parallel()

	snapshot := ProductSnapshot{
		ProductID:      uuid.New(),
		Name:           "Caneca Azul",
		UnitPriceCents: 2500,
		Available:      3,
	}
	svc := newCartService(t, snapshot)
	ctx := context.Background()
	storeID := uuid.New()

	_, err := svc.AddItem(ctx, "sess-1", storeID, snapshot.ProductID, nil, 2)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, "sess-1", storeID, snapshot.ProductID, nil, 2)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestServiceAddItemAllowsBackorder(t *testing.T) {
	t.Parallel()

	snapshot := ProductSnapshot{
		ProductID:      uuid.New(),
		Name:           "Sob Encomenda",
		UnitPriceCents: 900,
		Available:      0,
		AllowNegative:  true,
	}
	svc := newCartService(t, snapshot)

	cart, err := svc.AddItem(context.Background(), "sess-1", uuid.New(), snapshot.ProductID, nil, 5)
	require.NoError(t, err)
	require.Equal(t, 5, cart.Items[0].Qty)
}

func TestServiceAddItemUnknownProduct(t *testing.T) {
	t.Parallel()

	svc := newCartService(t)

	_, err := svc.AddItem(context.Background(), "sess-1", uuid.New(), uuid.New(), nil, 1)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServiceUpdateAndClear(t *testing.T) {
	t.Parallel()

	snapshot := ProductSnapshot{
		ProductID:      uuid.New(),
		Name:           "Caneca Azul",
		UnitPriceCents: 2500,
		Available:      10,
	}
	svc := newCartService(t, snapshot)
	ctx := context.Background()
	storeID := uuid.New()

	cart, err := svc.AddItem(ctx, "sess-1", storeID, snapshot.ProductID, nil, 1)
	require.NoError(t, err)
	lineID := cart.Items[0].ID

	cart, err = svc.UpdateQuantity(ctx, storeID, "sess-1", lineID, 4)
	require.NoError(t, err)
	require.Equal(t, 4, cart.Items[0].Qty)

	cart, err = svc.RemoveItem(ctx, storeID, "sess-1", lineID)
	require.NoError(t, err)
	require.Empty(t, cart.Items)

	require.NoError(t, svc.Clear(ctx, storeID, "sess-1"))
	cart, err = svc.Get(ctx, storeID, "sess-1")
	require.NoError(t, err)
	require.Empty(t, cart.Items)
}
