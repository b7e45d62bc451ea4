package stores

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendemais/vendemais-backend/internal/storefront"
	"github.com/vendemais/vendemais-backend/pkg/config"
	"github.com/vendemais/vendemais-backend/pkg/db"
	"github.com/vendemais/vendemais-backend/pkg/db/models"
	"github.com/vendemais/vendemais-backend/pkg/enums"
	pkgerrors "github.com/vendemais/vendemais-backend/pkg/errors"
	"github.com/vendemais/vendemais-backend/pkg/security"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// RegisterRequest contains the payload required to onboard a new store.
type RegisterRequest struct {
	Name           string  `json:"name" validate:"required"`
	Slug           string  `json:"slug" validate:"required"`
	WhatsAppNumber string  `json:"whatsapp_number" validate:"required"`
	OwnerEmail     string  `json:"owner_email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=8"`
	Description    *string `json:"description,omitempty"`
}

// DomainSettingsRequest updates how the storefront is routed.
type DomainSettingsRequest struct {
	DomainMode       enums.DomainMode `json:"domain_mode" validate:"required"`
	CustomDomain     *string          `json:"custom_domain,omitempty"`
	Subdomain        *string          `json:"subdomain,omitempty"`
	SubdomainEnabled *bool            `json:"subdomain_enabled,omitempty"`
}

// ServiceParams packages the dependencies for the stores service.
type ServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
	BaseDomain     string
}

// Service owns tenant lifecycle: registration, login and domain routing.
type Service struct {
	db          *db.Client
	passwordCfg config.PasswordConfig
	baseDomain  string
}

func NewService(params ServiceParams) (*Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &Service{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
		baseDomain:  strings.ToLower(strings.TrimSpace(params.BaseDomain)),
	}, nil
}

// Register creates a new store with a hashed owner password.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*models.Store, error) {
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !slugPattern.MatchString(slug) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug deve conter apenas letras minúsculas, números e hífens")
	}
	email := strings.ToLower(strings.TrimSpace(req.OwnerEmail))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *models.Store
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		if _, err := repo.FindBySlug(ctx, slug); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "este endereço de loja já está em uso")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check slug")
		}

		if _, err := repo.FindByOwnerEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "este email já está cadastrado")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check owner email")
		}

		store := &models.Store{
			ID:             uuid.New(),
			Name:           strings.TrimSpace(req.Name),
			Slug:           slug,
			Description:    req.Description,
			WhatsAppNumber: strings.TrimSpace(req.WhatsAppNumber),
			OwnerEmail:     email,
			PasswordHash:   passwordHash,
			DomainMode:     enums.DomainModeSlug,
		}
		created, err = repo.Create(ctx, store)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create store")
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return created, nil
}

// Authenticate verifies the owner's credentials and returns the store.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.Store, error) {
	repo := NewRepository(s.db.DB())
	store, err := repo.FindByOwnerEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "credenciais inválidas")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load store by email")
	}

	ok, err := security.VerifyPassword(password, store.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "credenciais inválidas")
	}
	return store, nil
}

// GetByID loads the store or reports CodeNotFound.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	store, err := NewRepository(s.db.DB()).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "loja não encontrada")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load store")
	}
	return store, nil
}

// ResolveSlug maps a storefront URL slug to its tenant.
func (s *Service) ResolveSlug(ctx context.Context, slug string) (*models.Store, error) {
	store, err := NewRepository(s.db.DB()).FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "loja não encontrada")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve slug")
	}
	return store, nil
}

// ResolveHost maps a request host to its tenant. Hosts under the platform
// base domain resolve by subdomain label; anything else resolves as a custom
// domain. The empty return on the bare base domain means slug routing applies.
func (s *Service) ResolveHost(ctx context.Context, host string) (*models.Store, error) {
	normalized := strings.ToLower(strings.TrimSpace(host))
	if i := strings.IndexByte(normalized, ':'); i >= 0 {
		normalized = normalized[:i]
	}
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "host is required")
	}

	repo := NewRepository(s.db.DB())

	if s.baseDomain != "" && normalized != s.baseDomain && strings.HasSuffix(normalized, "."+s.baseDomain) {
		label := strings.TrimSuffix(normalized, "."+s.baseDomain)
		store, err := repo.FindBySubdomain(ctx, label)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "loja não encontrada")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve subdomain")
		}
		return store, nil
	}

	if normalized == s.baseDomain {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "loja não encontrada")
	}

	store, err := repo.FindByCustomDomain(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "loja não encontrada")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve custom domain")
	}
	return store, nil
}

// DomainStatus recomputes the storefront renderability from current settings.
func (s *Service) DomainStatus(store *models.Store) storefront.DomainStatus {
	return storefront.Validate(settingsFrom(store))
}

// UpdateDomainSettings applies new routing settings and returns the resulting
// domain status. Invalid configurations are saved anyway: the status carries
// the errors and the storefront stays blocked until they are fixed.
func (s *Service) UpdateDomainSettings(ctx context.Context, storeID uuid.UUID, req DomainSettingsRequest) (*models.Store, storefront.DomainStatus, error) {
	if !req.DomainMode.IsValid() {
		return nil, storefront.DomainStatus{}, pkgerrors.New(pkgerrors.CodeValidation, "modo de domínio inválido")
	}

	var updated *models.Store
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		store, err := repo.FindByID(ctx, storeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "loja não encontrada")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load store")
		}

		store.DomainMode = req.DomainMode
		if req.CustomDomain != nil {
			domain := strings.ToLower(strings.TrimSpace(*req.CustomDomain))
			if domain == "" {
				store.CustomDomain = nil
			} else {
				store.CustomDomain = &domain
			}
			// A changed domain needs re-verification and a fresh cert.
			store.CustomDomainVerified = false
			store.SSLCertStatus = enums.SSLCertStatusPending
		}
		if req.Subdomain != nil {
			label := strings.ToLower(strings.TrimSpace(*req.Subdomain))
			if label == "" {
				store.Subdomain = nil
			} else {
				if !slugPattern.MatchString(label) {
					return pkgerrors.New(pkgerrors.CodeValidation, "subdomínio inválido")
				}
				store.Subdomain = &label
			}
		}
		if req.SubdomainEnabled != nil {
			store.SubdomainEnabled = *req.SubdomainEnabled
		}

		updated, err = repo.Save(ctx, store)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save store")
		}
		return nil
	})
	if txErr != nil {
		return nil, storefront.DomainStatus{}, txErr
	}
	return updated, storefront.Validate(settingsFrom(updated)), nil
}

func settingsFrom(store *models.Store) storefront.Settings {
	return storefront.Settings{
		DomainMode:           store.DomainMode,
		CustomDomain:         store.CustomDomain,
		CustomDomainVerified: store.CustomDomainVerified,
		Subdomain:            store.Subdomain,
		SubdomainEnabled:     store.SubdomainEnabled,
		SSLCertStatus:        store.SSLCertStatus,
	}
}
