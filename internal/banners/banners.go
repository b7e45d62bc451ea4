package banners

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendemais/vendemais-backend/pkg/db"
	"github.com/vendemais/vendemais-backend/pkg/db/models"
	pkgerrors "github.com/vendemais/vendemais-backend/pkg/errors"
)

// CreateRequest is the admin payload for a new banner.
type CreateRequest struct {
	Title    string  `json:"title" validate:"required"`
	ImageURL string  `json:"image_url" validate:"required,url"`
	LinkURL  *string `json:"link_url,omitempty" validate:"omitempty,url"`
	Position int     `json:"position"`
	Active   *bool   `json:"active,omitempty"`
}

// UpdateRequest carries partial banner edits; nil fields stay untouched.
type UpdateRequest struct {
	Title    *string `json:"title,omitempty"`
	ImageURL *string `json:"image_url,omitempty" validate:"omitempty,url"`
	LinkURL  *string `json:"link_url,omitempty" validate:"omitempty,url"`
	Position *int    `json:"position,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

// Service owns storefront hero banners.
type Service struct {
	db *db.Client
}

func NewService(client *db.Client) (*Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &Service{db: client}, nil
}

// Create inserts a banner for the store.
func (s *Service) Create(ctx context.Context, storeID uuid.UUID, req CreateRequest) (*models.Banner, error) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	banner := &models.Banner{
		ID:       uuid.New(),
		StoreID:  storeID,
		Title:    req.Title,
		ImageURL: req.ImageURL,
		LinkURL:  req.LinkURL,
		Position: req.Position,
		Active:   active,
	}
	if err := s.db.DB().WithContext(ctx).Create(banner).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create banner")
	}
	return banner, nil
}

// Update applies partial edits to a banner the store owns.
func (s *Service) Update(ctx context.Context, storeID, bannerID uuid.UUID, req UpdateRequest) (*models.Banner, error) {
	var banner models.Banner
	err := s.db.DB().WithContext(ctx).
		First(&banner, "id = ? AND store_id = ?", bannerID, storeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "banner não encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load banner")
	}

	if req.Title != nil {
		banner.Title = *req.Title
	}
	if req.ImageURL != nil {
		banner.ImageURL = *req.ImageURL
	}
	if req.LinkURL != nil {
		banner.LinkURL = req.LinkURL
	}
	if req.Position != nil {
		banner.Position = *req.Position
	}
	if req.Active != nil {
		banner.Active = *req.Active
	}

	if err := s.db.DB().WithContext(ctx).Save(&banner).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save banner")
	}
	return &banner, nil
}

// Delete removes a banner scoped to its store.
func (s *Service) Delete(ctx context.Context, storeID, bannerID uuid.UUID) error {
	result := s.db.DB().WithContext(ctx).
		Where("id = ? AND store_id = ?", bannerID, storeID).
		Delete(&models.Banner{})
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, result.Error, "delete banner")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "banner não encontrado")
	}
	return nil
}

// ListByStore returns every banner of the store ordered by position.
func (s *Service) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Banner, error) {
	var rows []models.Banner
	err := s.db.DB().WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("position ASC").Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list banners")
	}
	return rows, nil
}

// ListActive returns the storefront carousel: active banners by position.
func (s *Service) ListActive(ctx context.Context, storeID uuid.UUID) ([]models.Banner, error) {
	var rows []models.Banner
	err := s.db.DB().WithContext(ctx).
		Where("store_id = ? AND active = ?", storeID, true).
		Order("position ASC").Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list active banners")
	}
	return rows, nil
}
