package jobs

import (
	"context"

	"taskbridge-server/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
)

// RiverEnqueuer inserts jobs through the shared river client.
type RiverEnqueuer struct {
	client *river.Client[pgx.Tx]
}

func NewRiverEnqueuer(client *river.Client[pgx.Tx]) *RiverEnqueuer {
	return &RiverEnqueuer{client: client}
}

func (e *RiverEnqueuer) EnqueueBookingConfirmed(ctx context.Context, bookingID uuid.UUID) error {
	_, err := e.client.Insert(ctx, BookingConfirmedArgs{BookingID: bookingID}, nil)
	if err != nil {
		return errs.Wrap(err, "failed to enqueue booking confirmed job")
	}
	return nil
}
