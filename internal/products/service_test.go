package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vendemais/vendemais-backend/internal/stock"
	"github.com/vendemais/vendemais-backend/pkg/db"
	"github.com/vendemais/vendemais-backend/pkg/db/models"
	pkgerrors "github.com/vendemais/vendemais-backend/pkg/errors"
	"github.com/vendemais/vendemais-backend/pkg/pagination"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := "file:products_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.ProductVariation{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(db.NewFromConn(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func TestCreateAndGetPublic(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	storeID := uuid.New()

	variationStock := 2
	created, err := svc.Create(ctx, storeID, CreateRequest{
		Name:       "Caneca Esmaltada",
		PriceCents: 3990,
		Stock:      10,
		ImageURLs:  []string{"https://cdn.example.com/caneca.jpg"},
		Variations: []VariationRequest{
			{Name: "Azul", PriceDeltaCents: 0, Stock: &variationStock},
			{Name: "Vermelha", PriceDeltaCents: 500},
		},
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if created.Stock.State != stock.StateInStock || created.Stock.Available != 10 {
		t.Fatalf("unexpected stock indicator: %+v", created.Stock)
	}
	if len(created.Variations) != 2 {
		t.Fatalf("expected 2 variations, got %d", len(created.Variations))
	}

	got, err := svc.GetPublic(ctx, storeID, created.ID)
	if err != nil {
		t.Fatalf("get public: %v", err)
	}
	if got.Name != "Caneca Esmaltada" {
		t.Fatalf("unexpected name %q", got.Name)
	}

	// The blue variation carries its own counters.
	var blue *VariationView
	for i := range got.Variations {
		if got.Variations[i].Name == "Azul" {
			blue = &got.Variations[i]
		}
	}
	if blue == nil {
		t.Fatal("missing variation Azul")
	}
	if blue.Stock.Available != 2 || blue.Stock.State != stock.StateLowStock {
		t.Fatalf("unexpected variation indicator: %+v", blue.Stock)
	}

	_, err = svc.GetPublic(ctx, uuid.New(), created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for other store, got %v", err)
	}
}

func TestGetPublicHidesInactive(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	storeID := uuid.New()

	inactive := false
	created, err := svc.Create(ctx, storeID, CreateRequest{
		Name:       "Rascunho",
		PriceCents: 1000,
		Active:     &inactive,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	_, err = svc.GetPublic(ctx, storeID, created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for inactive product, got %v", err)
	}
}

func TestUpdatePartial(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	storeID := uuid.New()

	created, err := svc.Create(ctx, storeID, CreateRequest{
		Name:       "Camiseta",
		PriceCents: 4990,
		Stock:      3,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	newPrice := 5490
	newStock := 0
	updated, err := svc.Update(ctx, storeID, created.ID, UpdateRequest{
		PriceCents: &newPrice,
		Stock:      &newStock,
	})
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if updated.PriceCents != 5490 {
		t.Fatalf("expected price updated, got %d", updated.PriceCents)
	}
	if updated.Name != "Camiseta" {
		t.Fatalf("untouched field changed: %q", updated.Name)
	}
	if updated.Stock.State != stock.StateOutOfStock {
		t.Fatalf("expected out_of_stock, got %s", updated.Stock.State)
	}

	_, err = svc.Update(ctx, uuid.New(), created.ID, UpdateRequest{PriceCents: &newPrice})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for other store, got %v", err)
	}
}

func TestDeleteScopedToStore(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	storeID := uuid.New()

	created, err := svc.Create(ctx, storeID, CreateRequest{Name: "Descartável", PriceCents: 100})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	err = svc.Delete(ctx, uuid.New(), created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for other store, got %v", err)
	}

	if err := svc.Delete(ctx, storeID, created.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	_, err = svc.GetPublic(ctx, storeID, created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestListPublicPagination(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()
	storeID := uuid.New()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		product := &models.Product{
			ID:         uuid.New(),
			StoreID:    storeID,
			Name:       "Produto",
			PriceCents: 1000,
			Active:     i != 4,
			Stock:      10,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := conn.Create(product).Error; err != nil {
			t.Fatalf("seed product: %v", err)
		}
	}

	page, err := svc.ListPublic(ctx, storeID, pagination.Params{Limit: 3})
	if err != nil {
		t.Fatalf("list first page: %v", err)
	}
	if len(page.Products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(page.Products))
	}
	if page.NextCursor == "" {
		t.Fatal("expected a next cursor")
	}

	rest, err := svc.ListPublic(ctx, storeID, pagination.Params{Limit: 3, Cursor: page.NextCursor})
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	// Only 4 products are active, so the second page holds the remaining one.
	if len(rest.Products) != 1 {
		t.Fatalf("expected 1 product on second page, got %d", len(rest.Products))
	}
	if rest.NextCursor != "" {
		t.Fatalf("expected no further cursor, got %q", rest.NextCursor)
	}

	seen := map[uuid.UUID]bool{}
	for _, p := range append(page.Products, rest.Products...) {
		if seen[p.ID] {
			t.Fatalf("duplicate product %s across pages", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestFindForSale(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	storeID := uuid.New()

	sharedStock := 7
	created, err := svc.Create(ctx, storeID, CreateRequest{
		Name:       "Moletom",
		PriceCents: 12990,
		Stock:      sharedStock,
		Variations: []VariationRequest{
			{Name: "P", PriceDeltaCents: 0},
			{Name: "GG", PriceDeltaCents: 1000, Stock: intPtr(1)},
		},
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	snap, err := svc.FindForSale(ctx, storeID, created.ID, nil)
	if err != nil {
		t.Fatalf("find for sale: %v", err)
	}
	if snap.Available != sharedStock || snap.UnitPriceCents != 12990 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	var pID, ggID uuid.UUID
	for _, v := range created.Variations {
		switch v.Name {
		case "P":
			pID = v.ID
		case "GG":
			ggID = v.ID
		}
	}

	// Variation without counters inherits the parent's availability.
	snap, err = svc.FindForSale(ctx, storeID, created.ID, &pID)
	if err != nil {
		t.Fatalf("find variation P: %v", err)
	}
	if snap.Available != sharedStock {
		t.Fatalf("expected parent stock fallback, got %d", snap.Available)
	}

	snap, err = svc.FindForSale(ctx, storeID, created.ID, &ggID)
	if err != nil {
		t.Fatalf("find variation GG: %v", err)
	}
	if snap.Available != 1 || snap.UnitPriceCents != 13990 {
		t.Fatalf("unexpected GG snapshot: %+v", snap)
	}
	if snap.Name != "Moletom" || snap.VariationName == nil || *snap.VariationName != "GG" {
		t.Fatalf("expected variation name alongside the product name, got %+v", snap)
	}

	unknown := uuid.New()
	_, err = svc.FindForSale(ctx, storeID, created.ID, &unknown)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown variation, got %v", err)
	}
}

func intPtr(v int) *int { return &v }
