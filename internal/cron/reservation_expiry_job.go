package cron

import (
	"context"

	"github.com/vendemais/vendemais-backend/pkg/metrics"
)

const reservationExpiryJobName = "reservation_expiry"

type reservationSweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// ReservationExpiryJob releases stock reservations whose hold window has passed.
type ReservationExpiryJob struct {
	sweeper reservationSweeper
	metrics *metrics.CronJobMetrics
}

// NewReservationExpiryJob builds the reservation expiry job.
func NewReservationExpiryJob(sweeper reservationSweeper, m *metrics.CronJobMetrics) *ReservationExpiryJob {
	return &ReservationExpiryJob{sweeper: sweeper, metrics: m}
}

// Name implements Job.
func (j *ReservationExpiryJob) Name() string {
	return reservationExpiryJobName
}

// Run implements Job. Partial progress is still recorded when the sweep errors.
func (j *ReservationExpiryJob) Run(ctx context.Context) error {
	released, err := j.sweeper.SweepExpired(ctx)
	j.metrics.AddReleased(reservationExpiryJobName, released)
	return err
}
