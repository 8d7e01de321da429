package queries

import (
	"context"

	"taskbridge-server/internal/domain/booking"

	"github.com/google/uuid"
)

// AvailabilityQueries answers which slots are already claimed by active
// bookings for a provider on a date. Pure read; writes race it only until
// the insert-time conflict arbiter settles (see BookingRepository.Create).
type AvailabilityQueries interface {
	TakenSlots(ctx context.Context, providerID uuid.UUID, date booking.ServiceDate) ([]string, error)
}

type AvailabilityReadStore interface {
	FindTakenSlots(ctx context.Context, providerID uuid.UUID, date booking.ServiceDate) ([]string, error)
}

type availabilityQueriesImpl struct {
	reads AvailabilityReadStore
}

func NewAvailabilityQueries(reads AvailabilityReadStore) AvailabilityQueries {
	return &availabilityQueriesImpl{reads: reads}
}

func (q *availabilityQueriesImpl) TakenSlots(ctx context.Context, providerID uuid.UUID, date booking.ServiceDate) ([]string, error) {
	slots, err := q.reads.FindTakenSlots(ctx, providerID, date)
	if err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []string{}
	}
	return slots, nil
}
