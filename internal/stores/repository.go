package stores

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendemais/vendemais-backend/pkg/db/models"
)

// Repository wraps store persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new store row.
func (r *Repository) Create(ctx context.Context, store *models.Store) (*models.Store, error) {
	if err := r.db.WithContext(ctx).Create(store).Error; err != nil {
		return nil, err
	}
	return store, nil
}

// Save persists all fields of an existing store row.
func (r *Repository) Save(ctx context.Context, store *models.Store) (*models.Store, error) {
	if err := r.db.WithContext(ctx).Save(store).Error; err != nil {
		return nil, err
	}
	return store, nil
}

// FindByID loads a store by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindBySlug loads a store by its URL slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).First(&store, "slug = ?", strings.ToLower(slug)).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// FindBySubdomain loads a store by its subdomain label.
func (r *Repository) FindBySubdomain(ctx context.Context, subdomain string) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).First(&store, "subdomain = ?", strings.ToLower(subdomain)).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// FindByCustomDomain loads a store by its custom domain host.
func (r *Repository) FindByCustomDomain(ctx context.Context, domain string) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).First(&store, "custom_domain = ?", strings.ToLower(domain)).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// FindByOwnerEmail loads a store by the owner's login email.
func (r *Repository) FindByOwnerEmail(ctx context.Context, email string) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).First(&store, "owner_email = ?", strings.ToLower(email)).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}
