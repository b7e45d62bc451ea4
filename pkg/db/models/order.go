package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vendemais/vendemais-backend/pkg/enums"
)

// Order is a WhatsApp-submitted order. Totals are integer cents; line items
// carry denormalized product snapshots so later catalog edits do not rewrite
// order history.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	StoreID       uuid.UUID         `gorm:"column:store_id;type:uuid;not null;index"`
	Code          string            `gorm:"column:code;not null;uniqueIndex"`
	CustomerName  string            `gorm:"column:customer_name;not null"`
	CustomerPhone string            `gorm:"column:customer_phone;not null"`
	Status        enums.OrderStatus `gorm:"column:status;not null;default:'pending';index"`
	SubtotalCents int               `gorm:"column:subtotal_cents;not null;default:0"`
	TotalCents    int               `gorm:"column:total_cents;not null;default:0"`
	ConfirmedAt   *time.Time        `gorm:"column:confirmed_at"`
	CanceledAt    *time.Time        `gorm:"column:canceled_at"`

	Items []OrderLineItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLineItem snapshots one cart line at checkout time.
type OrderLineItem struct {
	ID                uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	OrderID           uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID         uuid.UUID  `gorm:"column:product_id;type:uuid;not null"`
	VariationID       *uuid.UUID `gorm:"column:variation_id;type:uuid"`
	ProductName       string     `gorm:"column:product_name;not null"`
	VariationName     *string    `gorm:"column:variation_name"`
	Qty               int        `gorm:"column:qty;not null"`
	UnitPriceCents    int        `gorm:"column:unit_price_cents;not null"`
	LineSubtotalCents int        `gorm:"column:line_subtotal_cents;not null"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
}
