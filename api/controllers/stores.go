package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vendemais/vendemais-backend/api/middleware"
	"github.com/vendemais/vendemais-backend/api/responses"
	"github.com/vendemais/vendemais-backend/api/validators"
	"github.com/vendemais/vendemais-backend/internal/storefront"
	"github.com/vendemais/vendemais-backend/internal/stores"
	"github.com/vendemais/vendemais-backend/pkg/db/models"
	pkgerrors "github.com/vendemais/vendemais-backend/pkg/errors"
	"github.com/vendemais/vendemais-backend/pkg/logger"
)

type storeView struct {
	ID               uuid.UUID               `json:"id"`
	Name             string                  `json:"name"`
	Slug             string                  `json:"slug"`
	Description      *string                 `json:"description,omitempty"`
	WhatsAppNumber   string                  `json:"whatsapp_number"`
	OwnerEmail       string                  `json:"owner_email"`
	DomainMode       string                  `json:"domain_mode"`
	CustomDomain     *string                 `json:"custom_domain,omitempty"`
	Subdomain        *string                 `json:"subdomain,omitempty"`
	SubdomainEnabled bool                    `json:"subdomain_enabled"`
	DomainStatus     storefront.DomainStatus `json:"domain_status"`
}

func storeViewFrom(store *models.Store, status storefront.DomainStatus) storeView {
	return storeView{
		ID:               store.ID,
		Name:             store.Name,
		Slug:             store.Slug,
		Description:      store.Description,
		WhatsAppNumber:   store.WhatsAppNumber,
		OwnerEmail:       store.OwnerEmail,
		DomainMode:       store.DomainMode.String(),
		CustomDomain:     store.CustomDomain,
		Subdomain:        store.Subdomain,
		SubdomainEnabled: store.SubdomainEnabled,
		DomainStatus:     status,
	}
}

func storeIDFromContext(r *http.Request) (uuid.UUID, error) {
	raw := middleware.StoreIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}
	storeID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id")
	}
	return storeID, nil
}

// StoreProfile returns the authenticated store with its domain status.
func StoreProfile(svc *stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.GetByID(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, storeViewFrom(store, svc.DomainStatus(store)))
	}
}

// StoreDomainUpdate applies new routing settings and returns the revalidated
// status. Invalid configurations are saved; the status carries their errors.
func StoreDomainUpdate(svc *stores.Service, events EventPublisher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload stores.DomainSettingsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, status, err := svc.UpdateDomainSettings(r.Context(), storeID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		publishStoreEvent(r.Context(), events, logg, store.ID, "settings.updated", status)

		responses.WriteSuccess(w, storeViewFrom(store, status))
	}
}
