package models

import (
	"time"

	"github.com/google/uuid"
)

// Banner is a storefront hero image configured by the store owner.
type Banner struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	StoreID  uuid.UUID `gorm:"column:store_id;type:uuid;not null;index"`
	Title    string    `gorm:"column:title;not null"`
	ImageURL string    `gorm:"column:image_url;not null"`
	LinkURL  *string   `gorm:"column:link_url"`
	Position int       `gorm:"column:position;not null;default:0"`
	Active   bool      `gorm:"column:active;not null;default:true"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
