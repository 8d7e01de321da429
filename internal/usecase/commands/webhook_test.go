//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"taskbridge-server/internal/pkg/errs"
	"taskbridge-server/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	event *commands.PaymentEvent
	err   error
}

func (f *fakeVerifier) VerifyEvent(_ []byte, _ string) (*commands.PaymentEvent, error) {
	return f.event, f.err
}

type recordingBookingRepo struct {
	fakeBookingRepo
	confirmedRefs []string
	confirmedID   uuid.UUID
	confirmOK     bool
	confirmErr    error
	cancelledRefs []string
	cancelRows    int64
}

func (r *recordingBookingRepo) ConfirmByPaymentRef(_ context.Context, ref string) (uuid.UUID, bool, error) {
	r.confirmedRefs = append(r.confirmedRefs, ref)
	return r.confirmedID, r.confirmOK, r.confirmErr
}

func (r *recordingBookingRepo) CancelByPaymentRef(_ context.Context, ref string) (int64, error) {
	r.cancelledRefs = append(r.cancelledRefs, ref)
	return r.cancelRows, nil
}

type fakeEnqueuer struct {
	enqueued []uuid.UUID
	err      error
}

func (f *fakeEnqueuer) EnqueueBookingConfirmed(_ context.Context, bookingID uuid.UUID) error {
	f.enqueued = append(f.enqueued, bookingID)
	return f.err
}

func TestProcessWebhook(t *testing.T) {
	ctx := context.Background()
	payload := []byte(`{"type":"payment_intent.succeeded"}`)

	t.Run("invalid signature stops before any state change", func(t *testing.T) {
		repo := &recordingBookingRepo{}
		jobs := &fakeEnqueuer{}
		uc := commands.NewWebhookCommands(&fakeVerifier{err: errors.New("bad signature")}, repo, jobs)

		err := uc.Process(ctx, payload, "t=1,v1=bogus")
		assert.True(t, errs.Is(err, commands.ErrInvalidSignature))
		assert.Empty(t, repo.confirmedRefs)
		assert.Empty(t, repo.cancelledRefs)
		assert.Empty(t, jobs.enqueued)
	})

	t.Run("payment success confirms and enqueues notification", func(t *testing.T) {
		bookingID := uuid.New()
		repo := &recordingBookingRepo{confirmedID: bookingID, confirmOK: true}
		jobs := &fakeEnqueuer{}
		uc := commands.NewWebhookCommands(&fakeVerifier{
			event: &commands.PaymentEvent{
				Kind:             commands.EventPaymentSucceeded,
				AuthorizationRef: "pi_ok",
				Type:             "payment_intent.succeeded",
			},
		}, repo, jobs)

		require.NoError(t, uc.Process(ctx, payload, "sig"))
		assert.Equal(t, []string{"pi_ok"}, repo.confirmedRefs)
		assert.Equal(t, []uuid.UUID{bookingID}, jobs.enqueued)
	})

	t.Run("replayed success event is a no-op", func(t *testing.T) {
		repo := &recordingBookingRepo{confirmOK: false}
		jobs := &fakeEnqueuer{}
		uc := commands.NewWebhookCommands(&fakeVerifier{
			event: &commands.PaymentEvent{
				Kind:             commands.EventPaymentSucceeded,
				AuthorizationRef: "pi_replayed",
				Type:             "payment_intent.succeeded",
			},
		}, repo, jobs)

		require.NoError(t, uc.Process(ctx, payload, "sig"))
		assert.Empty(t, jobs.enqueued, "no notification for a booking that did not transition")
	})

	t.Run("enqueue failure does not fail the webhook", func(t *testing.T) {
		repo := &recordingBookingRepo{confirmedID: uuid.New(), confirmOK: true}
		jobs := &fakeEnqueuer{err: errors.New("queue down")}
		uc := commands.NewWebhookCommands(&fakeVerifier{
			event: &commands.PaymentEvent{
				Kind:             commands.EventPaymentSucceeded,
				AuthorizationRef: "pi_ok",
				Type:             "payment_intent.succeeded",
			},
		}, repo, jobs)

		assert.NoError(t, uc.Process(ctx, payload, "sig"))
	})

	t.Run("payment failure cancels the pending booking", func(t *testing.T) {
		repo := &recordingBookingRepo{cancelRows: 1}
		jobs := &fakeEnqueuer{}
		uc := commands.NewWebhookCommands(&fakeVerifier{
			event: &commands.PaymentEvent{
				Kind:             commands.EventPaymentFailed,
				AuthorizationRef: "pi_failed",
				Type:             "payment_intent.payment_failed",
			},
		}, repo, jobs)

		require.NoError(t, uc.Process(ctx, payload, "sig"))
		assert.Equal(t, []string{"pi_failed"}, repo.cancelledRefs)
		assert.Empty(t, repo.confirmedRefs)
	})

	t.Run("unknown event types are acknowledged untouched", func(t *testing.T) {
		repo := &recordingBookingRepo{}
		jobs := &fakeEnqueuer{}
		uc := commands.NewWebhookCommands(&fakeVerifier{
			event: &commands.PaymentEvent{
				Kind: commands.EventIgnored,
				Type: "charge.refunded",
			},
		}, repo, jobs)

		require.NoError(t, uc.Process(ctx, payload, "sig"))
		assert.Empty(t, repo.confirmedRefs)
		assert.Empty(t, repo.cancelledRefs)
	})

	t.Run("repository failure propagates so the provider retries", func(t *testing.T) {
		repo := &recordingBookingRepo{confirmErr: errors.New("db down")}
		uc := commands.NewWebhookCommands(&fakeVerifier{
			event: &commands.PaymentEvent{
				Kind:             commands.EventPaymentSucceeded,
				AuthorizationRef: "pi_ok",
				Type:             "payment_intent.succeeded",
			},
		}, repo, &fakeEnqueuer{})

		err := uc.Process(ctx, payload, "sig")
		assert.True(t, errs.Is(err, commands.ErrWebhookHandling))
	})
}
