package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vendemais/vendemais-backend/pkg/enums"
)

// StockReservation is a temporary hold on inventory tied to a pending order.
// While active its expiry is strictly in the future; the sweep returns
// expired holds to available stock.
type StockReservation struct {
	ID          uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	StoreID     uuid.UUID               `gorm:"column:store_id;type:uuid;not null;index"`
	ProductID   uuid.UUID               `gorm:"column:product_id;type:uuid;not null;index"`
	VariationID *uuid.UUID              `gorm:"column:variation_id;type:uuid"`
	OrderID     *uuid.UUID              `gorm:"column:order_id;type:uuid;index"`
	Qty         int                     `gorm:"column:qty;not null"`
	Status      enums.ReservationStatus `gorm:"column:status;not null;default:'active';index:stock_reservations_status_expires_idx"`
	ExpiresAt   time.Time               `gorm:"column:expires_at;not null;index:stock_reservations_status_expires_idx"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
