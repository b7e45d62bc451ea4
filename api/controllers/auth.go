package controllers

import (
	"net/http"
	"time"

	"github.com/vendemais/vendemais-backend/api/responses"
	"github.com/vendemais/vendemais-backend/api/validators"
	"github.com/vendemais/vendemais-backend/internal/stores"
	pkgauth "github.com/vendemais/vendemais-backend/pkg/auth"
	"github.com/vendemais/vendemais-backend/pkg/config"
	pkgerrors "github.com/vendemais/vendemais-backend/pkg/errors"
	"github.com/vendemais/vendemais-backend/pkg/logger"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string    `json:"token"`
	Store storeView `json:"store"`
}

// AuthRegister onboards a new store and signs its owner in.
func AuthRegister(svc *stores.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload stores.RegisterRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.Register(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := pkgauth.MintAccessToken(jwtCfg, time.Now(), pkgauth.AccessTokenPayload{
			StoreID: store.ID,
			Email:   store.OwnerEmail,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token"))
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, authResponse{
			Token: token,
			Store: storeViewFrom(store, svc.DomainStatus(store)),
		})
	}
}

// AuthLogin verifies owner credentials and issues a bearer token.
func AuthLogin(svc *stores.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.Authenticate(r.Context(), payload.Email, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := pkgauth.MintAccessToken(jwtCfg, time.Now(), pkgauth.AccessTokenPayload{
			StoreID: store.ID,
			Email:   store.OwnerEmail,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token"))
			return
		}

		responses.WriteSuccess(w, authResponse{
			Token: token,
			Store: storeViewFrom(store, svc.DomainStatus(store)),
		})
	}
}
