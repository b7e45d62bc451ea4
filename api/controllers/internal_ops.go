package controllers

import (
	"context"
	"net/http"

	"github.com/vendemais/vendemais-backend/api/responses"
	"github.com/vendemais/vendemais-backend/pkg/logger"
)

type reservationSweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// ReleaseExpiredReservations runs one expiry sweep and reports how many
// holds were returned to availability. Safe to call repeatedly.
func ReleaseExpiredReservations(sweeper reservationSweeper, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		released, err := sweeper.SweepExpired(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"released_count": released})
	}
}
