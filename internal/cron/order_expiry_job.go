package cron

import (
	"context"
	"time"
)

const orderExpiryJobName = "order_expiry"

type orderExpirer interface {
	ExpireStale(ctx context.Context, olderThan time.Duration) (int, error)
}

// OrderExpiryJob expires pending orders that were never confirmed and
// returns their reserved stock to availability.
type OrderExpiryJob struct {
	orders    orderExpirer
	olderThan time.Duration
}

// NewOrderExpiryJob builds the order expiry job.
func NewOrderExpiryJob(orders orderExpirer, olderThan time.Duration) *OrderExpiryJob {
	if olderThan <= 0 {
		olderThan = 24 * time.Hour
	}
	return &OrderExpiryJob{orders: orders, olderThan: olderThan}
}

// Name implements Job.
func (j *OrderExpiryJob) Name() string {
	return orderExpiryJobName
}

// Run implements Job.
func (j *OrderExpiryJob) Run(ctx context.Context) error {
	_, err := j.orders.ExpireStale(ctx, j.olderThan)
	return err
}
