package jobs

import (
	"context"
	"log/slog"

	"taskbridge-server/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

type BookingConfirmedArgs struct {
	BookingID uuid.UUID `json:"booking_id"`
}

func (BookingConfirmedArgs) Kind() string { return "booking_confirmed_email" }

// Notifier delivers confirmation messages. The default implementation only
// logs; a mail or push sender can replace it without touching the worker.
type Notifier interface {
	NotifyBookingConfirmed(ctx context.Context, view *queries.BookingView) error
}

type LogNotifier struct{}

func (LogNotifier) NotifyBookingConfirmed(_ context.Context, view *queries.BookingView) error {
	slog.Info("booking confirmed notification",
		"booking_id", view.ID,
		"customer_id", view.CustomerID,
		"provider_name", view.ProviderName,
		"date", view.Date,
		"time_slot", view.TimeSlot)
	return nil
}

type BookingConfirmedWorker struct {
	river.WorkerDefaults[BookingConfirmedArgs]
	bookingQueries queries.BookingQueries
	notifier       Notifier
}

func NewBookingConfirmedWorker(bookingQueries queries.BookingQueries, notifier Notifier) *BookingConfirmedWorker {
	return &BookingConfirmedWorker{
		bookingQueries: bookingQueries,
		notifier:       notifier,
	}
}

func (w *BookingConfirmedWorker) Work(ctx context.Context, job *river.Job[BookingConfirmedArgs]) error {
	view, err := w.bookingQueries.GetByIDSystem(ctx, job.Args.BookingID)
	if err != nil {
		return err
	}
	return w.notifier.NotifyBookingConfirmed(ctx, view)
}
