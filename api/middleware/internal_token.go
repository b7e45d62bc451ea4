package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/vendemais/vendemais-backend/api/responses"
	pkgerrors "github.com/vendemais/vendemais-backend/pkg/errors"
	"github.com/vendemais/vendemais-backend/pkg/logger"
)

const internalTokenHeader = "X-Internal-Token"

// InternalToken guards maintenance endpoints with a shared secret. An
// empty configured token disables the routes entirely.
func InternalToken(token string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "not found"))
				return
			}
			presented := strings.TrimSpace(r.Header.Get(internalTokenHeader))
			if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid internal token"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
