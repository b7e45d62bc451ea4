package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product is a sellable catalog entry scoped to a store. Stock counters live
// on the product; variations may override them with their own counters.
type Product struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	StoreID     uuid.UUID      `gorm:"column:store_id;type:uuid;not null;index"`
	Name        string         `gorm:"column:name;not null"`
	Description *string        `gorm:"column:description"`
	PriceCents  int            `gorm:"column:price_cents;not null"`
	ImageURLs   pq.StringArray `gorm:"column:image_urls;type:text[]"`
	Active      bool           `gorm:"column:active;not null;default:true"`

	Stock              int  `gorm:"column:stock;not null;default:0"`
	ReservedStock      int  `gorm:"column:reserved_stock;not null;default:0"`
	AllowNegativeStock bool `gorm:"column:allow_negative_stock;not null;default:false"`
	LowStockThreshold  int  `gorm:"column:low_stock_threshold;not null;default:5"`

	Variations []ProductVariation `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductVariation is an option of a product (size, color). Nil stock means
// the variation shares the parent product's counters.
type ProductVariation struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID       uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	Name            string    `gorm:"column:name;not null"`
	PriceDeltaCents int       `gorm:"column:price_delta_cents;not null;default:0"`
	Stock           *int      `gorm:"column:stock"`
	ReservedStock   *int      `gorm:"column:reserved_stock"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
