package commands

import (
	"context"
	"time"

	"taskbridge-server/internal/domain/booking"
	"taskbridge-server/internal/infra/db"
	"taskbridge-server/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingRepository interface {
	Create(ctx context.Context, tx db.DBTX, b *booking.Booking) error
	AttachPaymentRef(ctx context.Context, id uuid.UUID, ref string) error
	ConfirmByPaymentRef(ctx context.Context, ref string) (uuid.UUID, bool, error)
	CancelByPaymentRef(ctx context.Context, ref string) (int64, error)
	CancelPending(ctx context.Context, id uuid.UUID) (int64, error)
}

type ProviderReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*queries.ProviderSnapshot, error)
}

type IdempotencyRepository interface {
	// TryInsert claims the key; it reports false when the key already exists.
	TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	Get(ctx context.Context, key, userID uuid.UUID) (*queries.IdempotencyRecord, error)
	// UpdateStatusCompleted is called only once the whole creation, payment
	// authorization included, has succeeded. A completed key must never point
	// at a booking the caller saw fail.
	UpdateStatusCompleted(ctx context.Context, key, userID uuid.UUID, resultBookingID uuid.UUID) error
	// Delete releases a claimed key after a failed attempt so a retry is not
	// pinned to the failure until the key expires.
	Delete(ctx context.Context, key, userID uuid.UUID) error
}

type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error
}

// Authorization is an escrow hold opened with the external payment provider.
// Ref is stored on the booking; ClientSecret goes back to the customer's
// client so it can complete authentication directly with the provider.
type Authorization struct {
	Ref          string
	ClientSecret string
}

type AuthorizationRequest struct {
	AmountCents int64
	Currency    string
	Description string
	Metadata    map[string]string
}

type PaymentGateway interface {
	Authorize(ctx context.Context, req AuthorizationRequest) (*Authorization, error)
	Void(ctx context.Context, ref string) error
}

type EventKind string

const (
	EventPaymentSucceeded EventKind = "payment_succeeded"
	EventPaymentFailed    EventKind = "payment_failed"
	// EventIgnored covers event types the reconciler acknowledges without
	// acting on.
	EventIgnored EventKind = "ignored"
)

// PaymentEvent is the tagged union over the provider's webhook payloads.
type PaymentEvent struct {
	Kind             EventKind
	AuthorizationRef string
	Type             string
}

type WebhookVerifier interface {
	// VerifyEvent authenticates the raw payload against its signature before
	// anything else looks at the content.
	VerifyEvent(payload []byte, signature string) (*PaymentEvent, error)
}

type JobEnqueuer interface {
	EnqueueBookingConfirmed(ctx context.Context, bookingID uuid.UUID) error
}
