//go:build unit

package jobs_test

import (
	"context"
	"testing"
	"time"

	"taskbridge-server/internal/infra/jobs"
	"taskbridge-server/internal/infra/repository"
	"taskbridge-server/internal/pkg/clock"
	"taskbridge-server/internal/usecase/commands"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStaleStore struct {
	stale        []repository.StalePendingBooking
	findErr      error
	lastCutoff   time.Time
	cancelledIDs []uuid.UUID
	cancelRows   map[uuid.UUID]int64
	cancelErrs   map[uuid.UUID]error
}

func (f *fakeStaleStore) FindStalePending(_ context.Context, cutoff time.Time) ([]repository.StalePendingBooking, error) {
	f.lastCutoff = cutoff
	return f.stale, f.findErr
}

func (f *fakeStaleStore) CancelPending(_ context.Context, id uuid.UUID) (int64, error) {
	f.cancelledIDs = append(f.cancelledIDs, id)
	if err, ok := f.cancelErrs[id]; ok {
		return 0, err
	}
	if rows, ok := f.cancelRows[id]; ok {
		return rows, nil
	}
	return 1, nil
}

type fakeJanitor struct {
	deleted int64
	err     error
}

func (f *fakeJanitor) DeleteExpired(_ context.Context) (int64, error) {
	return f.deleted, f.err
}

type voidRecorder struct {
	voided  []string
	voidErr error
}

func (v *voidRecorder) Authorize(_ context.Context, _ commands.AuthorizationRequest) (*commands.Authorization, error) {
	panic("reaper must never open new authorizations")
}

func (v *voidRecorder) Void(_ context.Context, ref string) error {
	v.voided = append(v.voided, ref)
	return v.voidErr
}

func strPtr(s string) *string { return &s }

func TestReapStaleBookings(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	reapAfter := 24 * time.Hour
	job := &river.Job[jobs.ReapStaleBookingsArgs]{}

	t.Run("cancels stale bookings and voids attached authorizations", func(t *testing.T) {
		withRef := repository.StalePendingBooking{ID: uuid.New(), PaymentRef: strPtr("pi_stale_1")}
		withoutRef := repository.StalePendingBooking{ID: uuid.New()}
		store := &fakeStaleStore{stale: []repository.StalePendingBooking{withRef, withoutRef}}
		payments := &voidRecorder{}

		worker := jobs.NewReapStaleBookingsWorker(store, &fakeJanitor{deleted: 3}, payments, clock.NewMockClock(now), reapAfter)
		require.NoError(t, worker.Work(ctx, job))

		assert.Equal(t, now.Add(-reapAfter), store.lastCutoff)
		assert.ElementsMatch(t, []uuid.UUID{withRef.ID, withoutRef.ID}, store.cancelledIDs)
		assert.Equal(t, []string{"pi_stale_1"}, payments.voided)
	})

	t.Run("booking settled mid-pass keeps its authorization", func(t *testing.T) {
		settled := repository.StalePendingBooking{ID: uuid.New(), PaymentRef: strPtr("pi_settled")}
		store := &fakeStaleStore{
			stale:      []repository.StalePendingBooking{settled},
			cancelRows: map[uuid.UUID]int64{settled.ID: 0},
		}
		payments := &voidRecorder{}

		worker := jobs.NewReapStaleBookingsWorker(store, &fakeJanitor{}, payments, clock.NewMockClock(now), reapAfter)
		require.NoError(t, worker.Work(ctx, job))

		assert.Empty(t, payments.voided, "confirmed payment must not be voided")
	})

	t.Run("one failing cancellation does not stop the pass", func(t *testing.T) {
		broken := repository.StalePendingBooking{ID: uuid.New()}
		healthy := repository.StalePendingBooking{ID: uuid.New(), PaymentRef: strPtr("pi_ok")}
		store := &fakeStaleStore{
			stale:      []repository.StalePendingBooking{broken, healthy},
			cancelErrs: map[uuid.UUID]error{broken.ID: errors.New("deadlock")},
		}
		payments := &voidRecorder{}

		worker := jobs.NewReapStaleBookingsWorker(store, &fakeJanitor{}, payments, clock.NewMockClock(now), reapAfter)
		require.NoError(t, worker.Work(ctx, job))

		assert.Equal(t, []string{"pi_ok"}, payments.voided)
	})

	t.Run("scan failure is retried by the queue", func(t *testing.T) {
		store := &fakeStaleStore{findErr: errors.New("db down")}
		worker := jobs.NewReapStaleBookingsWorker(store, &fakeJanitor{}, &voidRecorder{}, clock.NewMockClock(now), reapAfter)

		assert.Error(t, worker.Work(ctx, job))
	})

	t.Run("janitor failure does not fail the job", func(t *testing.T) {
		worker := jobs.NewReapStaleBookingsWorker(
			&fakeStaleStore{}, &fakeJanitor{err: errors.New("db down")}, &voidRecorder{}, clock.NewMockClock(now), reapAfter)

		assert.NoError(t, worker.Work(ctx, job))
	})
}
