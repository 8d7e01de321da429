package commands

import (
	"context"
	"log/slog"

	"taskbridge-server/internal/pkg/errs"
)

var (
	ErrInvalidSignature = errs.New("webhook signature verification failed")
	ErrWebhookHandling  = errs.New("webhook handling failed")
)

type WebhookCommands interface {
	// Process verifies and applies a single payment event. It is safe to
	// replay: events for bookings already past pending_payment are no-ops.
	Process(ctx context.Context, payload []byte, signature string) error
}

type webhookUseCaseImpl struct {
	verifier    WebhookVerifier
	bookingRepo BookingRepository
	jobs        JobEnqueuer
}

func NewWebhookCommands(verifier WebhookVerifier, bookingRepo BookingRepository, jobs JobEnqueuer) WebhookCommands {
	return &webhookUseCaseImpl{
		verifier:    verifier,
		bookingRepo: bookingRepo,
		jobs:        jobs,
	}
}

func (u *webhookUseCaseImpl) Process(ctx context.Context, payload []byte, signature string) error {
	event, err := u.verifier.VerifyEvent(payload, signature)
	if err != nil {
		return errs.Mark(err, ErrInvalidSignature)
	}

	switch event.Kind {
	case EventPaymentSucceeded:
		return u.confirmBooking(ctx, event)
	case EventPaymentFailed:
		return u.releaseBooking(ctx, event)
	default:
		// Unknown event types are acknowledged so the provider stops
		// retrying them.
		slog.Debug("ignoring webhook event", "type", event.Type)
		return nil
	}
}

func (u *webhookUseCaseImpl) confirmBooking(ctx context.Context, event *PaymentEvent) error {
	bookingID, confirmed, err := u.bookingRepo.ConfirmByPaymentRef(ctx, event.AuthorizationRef)
	if err != nil {
		return errs.Mark(err, ErrWebhookHandling)
	}
	if !confirmed {
		// Replayed event or a booking already cancelled; nothing to do.
		slog.Info("payment success event matched no pending booking",
			"payment_ref", event.AuthorizationRef, "type", event.Type)
		return nil
	}

	if err := u.jobs.EnqueueBookingConfirmed(ctx, bookingID); err != nil {
		// Notification is best-effort; confirmation already committed.
		slog.Error("failed to enqueue confirmation notification",
			"booking_id", bookingID, "error", err.Error())
	}
	return nil
}

func (u *webhookUseCaseImpl) releaseBooking(ctx context.Context, event *PaymentEvent) error {
	rows, err := u.bookingRepo.CancelByPaymentRef(ctx, event.AuthorizationRef)
	if err != nil {
		return errs.Mark(err, ErrWebhookHandling)
	}
	if rows == 0 {
		slog.Info("payment failure event matched no pending booking",
			"payment_ref", event.AuthorizationRef, "type", event.Type)
	}
	return nil
}
