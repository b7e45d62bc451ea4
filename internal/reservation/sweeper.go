package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/vendemais/vendemais-backend/pkg/db"
	"github.com/vendemais/vendemais-backend/pkg/db/models"
	"github.com/vendemais/vendemais-backend/pkg/enums"
	"github.com/vendemais/vendemais-backend/pkg/logger"
)

const sweepBatchSize = 500

// Sweeper releases holds whose expiry has passed. Each hold is handled in
// its own transaction so one bad row never blocks the rest of the batch.
type Sweeper struct {
	db   *db.Client
	logg *logger.Logger
	now  func() time.Time
}

func NewSweeper(client *db.Client, logg *logger.Logger) *Sweeper {
	return &Sweeper{db: client, logg: logg, now: time.Now}
}

// SweepExpired releases every active hold past its expiry and returns how
// many were released. Safe to run concurrently and repeatedly: a hold that
// was already released is skipped, and a failed row is logged and counted
// into the returned error without stopping the sweep.
func (s *Sweeper) SweepExpired(ctx context.Context) (int, error) {
	cutoff := s.now()

	var ids []uuid.UUID
	err := s.db.DB().WithContext(ctx).
		Model(&models.StockReservation{}).
		Where("status = ? AND expires_at <= ?", enums.ReservationStatusActive, cutoff).
		Order("expires_at ASC").
		Limit(sweepBatchSize).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, fmt.Errorf("list expired reservations: %w", err)
	}

	released := 0
	var errs error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return released, multierr.Append(errs, err)
		}
		ok, err := s.releaseOne(ctx, id)
		if err != nil {
			s.logg.Error(ctx, "failed to release expired reservation", err)
			errs = multierr.Append(errs, fmt.Errorf("reservation %s: %w", id, err))
			continue
		}
		if ok {
			released++
		}
	}
	return released, errs
}

func (s *Sweeper) releaseOne(ctx context.Context, id uuid.UUID) (bool, error) {
	released := false
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		var hold models.StockReservation
		if err := tx.WithContext(ctx).First(&hold, "id = ?", id).Error; err != nil {
			return err
		}
		// Re-check under the transaction: another sweep or a checkout
		// confirm may have raced the listing query.
		if hold.Status != enums.ReservationStatusActive || hold.ExpiresAt.After(s.now()) {
			return nil
		}
		if err := release(ctx, tx, &hold); err != nil {
			return err
		}
		released = true
		return nil
	})
	return released, err
}
