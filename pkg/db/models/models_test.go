package models

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// The DB-backed test suites build their schema with AutoMigrate on sqlite,
// so the model tags must not carry postgres-only DDL. Database-side
// defaults live in db/migrations; IDs are always assigned in Go.
func TestModelsAutoMigrateOnSQLite(t *testing.T) {
	dsn := "file:models_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(
		&Store{},
		&Product{},
		&ProductVariation{},
		&Banner{},
		&Order{},
		&OrderLineItem{},
		&StockReservation{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store := Store{ID: uuid.New(), Name: "Loja", Slug: "loja", WhatsAppNumber: "+5511999990000", OwnerEmail: "ana@loja.com.br", PasswordHash: "x"}
	if err := conn.Create(&store).Error; err != nil {
		t.Fatalf("create store: %v", err)
	}
	if store.ID == uuid.Nil {
		t.Fatal("expected app-assigned id to survive insert")
	}
}
