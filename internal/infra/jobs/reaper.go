package jobs

import (
	"context"
	"log/slog"
	"time"

	"taskbridge-server/internal/infra/repository"
	"taskbridge-server/internal/pkg/clock"
	"taskbridge-server/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

type ReapStaleBookingsArgs struct{}

func (ReapStaleBookingsArgs) Kind() string { return "reap_stale_bookings" }

type StaleBookingStore interface {
	FindStalePending(ctx context.Context, cutoff time.Time) ([]repository.StalePendingBooking, error)
	CancelPending(ctx context.Context, id uuid.UUID) (int64, error)
}

type IdempotencyJanitor interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// ReapStaleBookingsWorker cancels pending_payment bookings whose payment was
// never settled and voids any authorization still attached to them. It is the
// backstop for compensations that failed inline during booking creation.
type ReapStaleBookingsWorker struct {
	river.WorkerDefaults[ReapStaleBookingsArgs]
	bookingRepo     StaleBookingStore
	idempotencyRepo IdempotencyJanitor
	payments        commands.PaymentGateway
	clock           clock.Clock
	reapAfter       time.Duration
}

func NewReapStaleBookingsWorker(
	bookingRepo StaleBookingStore,
	idempotencyRepo IdempotencyJanitor,
	payments commands.PaymentGateway,
	clk clock.Clock,
	reapAfter time.Duration,
) *ReapStaleBookingsWorker {
	return &ReapStaleBookingsWorker{
		bookingRepo:     bookingRepo,
		idempotencyRepo: idempotencyRepo,
		payments:        payments,
		clock:           clk,
		reapAfter:       reapAfter,
	}
}

func (w *ReapStaleBookingsWorker) Work(ctx context.Context, job *river.Job[ReapStaleBookingsArgs]) error {
	cutoff := w.clock.Now().Add(-w.reapAfter)

	stale, err := w.bookingRepo.FindStalePending(ctx, cutoff)
	if err != nil {
		return err
	}

	reaped := 0
	for _, b := range stale {
		rows, err := w.bookingRepo.CancelPending(ctx, b.ID)
		if err != nil {
			slog.Error("reaper failed to cancel stale booking",
				"booking_id", b.ID, "error", err.Error())
			continue
		}
		if rows == 0 {
			// Settled between the scan and the cancel; leave it alone.
			continue
		}
		if b.PaymentRef != nil {
			if err := w.payments.Void(ctx, *b.PaymentRef); err != nil {
				slog.Error("reaper failed to void authorization",
					"booking_id", b.ID, "payment_ref", *b.PaymentRef, "error", err.Error())
			}
		}
		reaped++
	}

	deletedKeys, err := w.idempotencyRepo.DeleteExpired(ctx)
	if err != nil {
		slog.Error("reaper failed to delete expired idempotency keys", "error", err.Error())
	}

	if reaped > 0 || deletedKeys > 0 {
		slog.Info("reaper pass complete",
			"stale_found", len(stale),
			"bookings_reaped", reaped,
			"idempotency_keys_deleted", deletedKeys)
	}
	return nil
}
