package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vendemais/vendemais-backend/pkg/db/models"
	"github.com/vendemais/vendemais-backend/pkg/enums"
	pkgerrors "github.com/vendemais/vendemais-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:reservation_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(&models.Product{}, &models.ProductVariation{}, &models.StockReservation{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, stock int, allowNegative bool) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:                 uuid.New(),
		StoreID:            uuid.New(),
		Name:               "Camiseta Básica",
		PriceCents:         4990,
		Active:             true,
		Stock:              stock,
		AllowNegativeStock: allowNegative,
		LowStockThreshold:  5,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestReserve(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	productA := seedProduct(t, db, 5, false)
	productB := seedProduct(t, db, 1, false)
	now := time.Now()

	requests := []Request{
		{StoreID: productA.StoreID, ProductID: productA.ID, Qty: 3},
		{StoreID: productA.StoreID, ProductID: productA.ID, Qty: 4},
		{StoreID: productB.StoreID, ProductID: productB.ID, Qty: 1},
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		results, terr := Reserve(ctx, tx, requests, 30*time.Minute, now)
		if terr != nil {
			return terr
		}
		if len(results) != 3 {
			t.Fatalf("expected 3 results, got %d", len(results))
		}
		if !results[0].Reserved || results[0].Reason != "" {
			t.Fatalf("expected first reservation to succeed: %+v", results[0])
		}
		if results[1].Reserved || results[1].Reason == "" {
			t.Fatalf("expected second reservation to fail with reason: %+v", results[1])
		}
		if !results[2].Reserved {
			t.Fatalf("expected third reservation to succeed: %+v", results[2])
		}
		return nil
	})
	if err != nil {
		t.Fatalf("reserve transaction: %v", err)
	}

	var a, b models.Product
	if err := db.First(&a, "id = ?", productA.ID).Error; err != nil {
		t.Fatalf("load product a: %v", err)
	}
	if err := db.First(&b, "id = ?", productB.ID).Error; err != nil {
		t.Fatalf("load product b: %v", err)
	}
	if a.Stock != 5 || a.ReservedStock != 3 {
		t.Fatalf("unexpected counters for product a: stock=%d reserved=%d", a.Stock, a.ReservedStock)
	}
	if b.Stock != 1 || b.ReservedStock != 1 {
		t.Fatalf("unexpected counters for product b: stock=%d reserved=%d", b.Stock, b.ReservedStock)
	}

	var hold models.StockReservation
	if err := db.First(&hold, "product_id = ?", productA.ID).Error; err != nil {
		t.Fatalf("load reservation: %v", err)
	}
	if hold.Status != enums.ReservationStatusActive {
		t.Fatalf("expected active status, got %s", hold.Status)
	}
	if !hold.ExpiresAt.After(now) {
		t.Fatalf("expected expiry in the future, got %s", hold.ExpiresAt)
	}
}

func TestReserveInvalidQty(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	product := seedProduct(t, db, 5, false)

	_, err := Reserve(context.Background(), db, []Request{
		{StoreID: product.StoreID, ProductID: product.ID, Qty: 0},
	}, 30*time.Minute, time.Now())
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReserveForeignStoreNotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	product := seedProduct(t, db, 5, false)

	// The inventory lookup is scoped by store, so a request carrying a
	// different store's id cannot reach this product.
	_, err := Reserve(context.Background(), db, []Request{
		{StoreID: uuid.New(), ProductID: product.ID, Qty: 1},
	}, 30*time.Minute, time.Now())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	var got models.Product
	if err := db.First(&got, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if got.ReservedStock != 0 {
		t.Fatalf("expected no reserved stock, got %d", got.ReservedStock)
	}
}

func TestReserveAllowNegative(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	product := seedProduct(t, db, 1, true)

	err := db.Transaction(func(tx *gorm.DB) error {
		results, terr := Reserve(ctx, tx, []Request{
			{StoreID: product.StoreID, ProductID: product.ID, Qty: 10},
		}, 30*time.Minute, time.Now())
		if terr != nil {
			return terr
		}
		if !results[0].Reserved {
			t.Fatalf("expected backorder reservation to succeed: %+v", results[0])
		}
		return nil
	})
	if err != nil {
		t.Fatalf("reserve transaction: %v", err)
	}

	var got models.Product
	if err := db.First(&got, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if got.ReservedStock != 10 {
		t.Fatalf("expected reserved 10, got %d", got.ReservedStock)
	}
}

func TestReserveVariationCounters(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	product := seedProduct(t, db, 100, false)

	stock := 2
	reserved := 0
	variation := &models.ProductVariation{
		ID:            uuid.New(),
		ProductID:     product.ID,
		Name:          "G",
		Stock:         &stock,
		ReservedStock: &reserved,
	}
	if err := db.Create(variation).Error; err != nil {
		t.Fatalf("seed variation: %v", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		results, terr := Reserve(ctx, tx, []Request{
			{StoreID: product.StoreID, ProductID: product.ID, VariationID: &variation.ID, Qty: 2},
			{StoreID: product.StoreID, ProductID: product.ID, VariationID: &variation.ID, Qty: 1},
		}, 30*time.Minute, time.Now())
		if terr != nil {
			return terr
		}
		if !results[0].Reserved {
			t.Fatalf("expected first variation hold to succeed: %+v", results[0])
		}
		if results[1].Reserved {
			t.Fatalf("expected second variation hold to be refused: %+v", results[1])
		}
		return nil
	})
	if err != nil {
		t.Fatalf("reserve transaction: %v", err)
	}

	var got models.ProductVariation
	if err := db.First(&got, "id = ?", variation.ID).Error; err != nil {
		t.Fatalf("load variation: %v", err)
	}
	if got.ReservedStock == nil || *got.ReservedStock != 2 {
		t.Fatalf("unexpected variation reserved counter: %+v", got.ReservedStock)
	}

	var parent models.Product
	if err := db.First(&parent, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("load parent: %v", err)
	}
	if parent.ReservedStock != 0 {
		t.Fatalf("parent counters must stay untouched, got reserved=%d", parent.ReservedStock)
	}
}

func TestConfirmByOrder(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	product := seedProduct(t, db, 8, false)
	orderID := uuid.New()

	err := db.Transaction(func(tx *gorm.DB) error {
		_, terr := Reserve(ctx, tx, []Request{
			{StoreID: product.StoreID, ProductID: product.ID, OrderID: &orderID, Qty: 3},
		}, 30*time.Minute, time.Now())
		return terr
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		confirmed, terr := ConfirmByOrder(ctx, tx, orderID)
		if terr != nil {
			return terr
		}
		if confirmed != 1 {
			t.Fatalf("expected 1 confirmed hold, got %d", confirmed)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}

	var got models.Product
	if err := db.First(&got, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if got.Stock != 5 || got.ReservedStock != 0 {
		t.Fatalf("unexpected counters after confirm: stock=%d reserved=%d", got.Stock, got.ReservedStock)
	}

	var hold models.StockReservation
	if err := db.First(&hold, "order_id = ?", orderID).Error; err != nil {
		t.Fatalf("load reservation: %v", err)
	}
	if hold.Status != enums.ReservationStatusConfirmed {
		t.Fatalf("expected confirmed status, got %s", hold.Status)
	}

	// Nothing active remains, so a second confirm is a no-op.
	err = db.Transaction(func(tx *gorm.DB) error {
		confirmed, terr := ConfirmByOrder(ctx, tx, orderID)
		if terr != nil {
			return terr
		}
		if confirmed != 0 {
			t.Fatalf("expected second confirm to touch nothing, got %d", confirmed)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("second confirm: %v", err)
	}
}

func TestReleaseByOrder(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	product := seedProduct(t, db, 8, false)
	orderID := uuid.New()

	err := db.Transaction(func(tx *gorm.DB) error {
		_, terr := Reserve(ctx, tx, []Request{
			{StoreID: product.StoreID, ProductID: product.ID, OrderID: &orderID, Qty: 3},
		}, 30*time.Minute, time.Now())
		return terr
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		released, terr := ReleaseByOrder(ctx, tx, orderID)
		if terr != nil {
			return terr
		}
		if released != 1 {
			t.Fatalf("expected 1 released hold, got %d", released)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("release: %v", err)
	}

	var got models.Product
	if err := db.First(&got, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if got.Stock != 8 || got.ReservedStock != 0 {
		t.Fatalf("unexpected counters after release: stock=%d reserved=%d", got.Stock, got.ReservedStock)
	}
}
