package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vendemais/vendemais-backend/pkg/enums"
)

// Store represents the canonical tenant model: one row per storefront.
type Store struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name           string    `gorm:"column:name;not null"`
	Slug           string    `gorm:"column:slug;not null;uniqueIndex"`
	Description    *string   `gorm:"column:description"`
	WhatsAppNumber string    `gorm:"column:whatsapp_number;not null"`
	OwnerEmail     string    `gorm:"column:owner_email;not null;uniqueIndex"`
	PasswordHash   string    `gorm:"column:password_hash;not null"`

	DomainMode           enums.DomainMode    `gorm:"column:domain_mode;not null;default:'slug'"`
	CustomDomain         *string             `gorm:"column:custom_domain;uniqueIndex"`
	CustomDomainVerified bool                `gorm:"column:custom_domain_verified;not null;default:false"`
	Subdomain            *string             `gorm:"column:subdomain;uniqueIndex"`
	SubdomainEnabled     bool                `gorm:"column:subdomain_enabled;not null;default:false"`
	SSLCertStatus        enums.SSLCertStatus `gorm:"column:ssl_cert_status;not null;default:'pending'"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
