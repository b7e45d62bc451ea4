package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vendemais/vendemais-backend/api/middleware"
	"github.com/vendemais/vendemais-backend/api/responses"
	"github.com/vendemais/vendemais-backend/internal/banners"
	"github.com/vendemais/vendemais-backend/pkg/db/models"
	pkgerrors "github.com/vendemais/vendemais-backend/pkg/errors"
	"github.com/vendemais/vendemais-backend/pkg/logger"
)

type storefrontView struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Description    *string   `json:"description,omitempty"`
	WhatsAppNumber string    `json:"whatsapp_number"`
}

type bannerView struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	ImageURL string    `json:"image_url"`
	LinkURL  *string   `json:"link_url,omitempty"`
	Position int       `json:"position"`
	Active   bool      `json:"active"`
}

func bannerViewFrom(banner models.Banner) bannerView {
	return bannerView{
		ID:       banner.ID,
		Title:    banner.Title,
		ImageURL: banner.ImageURL,
		LinkURL:  banner.LinkURL,
		Position: banner.Position,
		Active:   banner.Active,
	}
}

func tenantFromRequest(r *http.Request) (*models.Store, error) {
	store := middleware.TenantFromContext(r.Context())
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "loja não encontrada")
	}
	return store, nil
}

func sessionIDFromRequest(r *http.Request) (string, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "sessão não informada")
	}
	return sessionID, nil
}

// StorefrontProfile exposes the public face of the resolved store.
func StorefrontProfile(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, storefrontView{
			ID:             store.ID,
			Name:           store.Name,
			Slug:           store.Slug,
			Description:    store.Description,
			WhatsAppNumber: store.WhatsAppNumber,
		})
	}
}

// StorefrontBanners lists the store's active banners in display order.
func StorefrontBanners(svc *banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		active, err := svc.ListActive(r.Context(), store.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]bannerView, 0, len(active))
		for _, banner := range active {
			views = append(views, bannerViewFrom(banner))
		}
		responses.WriteSuccess(w, views)
	}
}
