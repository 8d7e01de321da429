package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"taskbridge-server/internal/domain/booking"
	"taskbridge-server/internal/domain/provider"
	"taskbridge-server/internal/infra"
	"taskbridge-server/internal/infra/db"
	"taskbridge-server/internal/pkg/clock"
	"taskbridge-server/internal/pkg/errs"
	"taskbridge-server/internal/usecase/queries"

	"github.com/google/uuid"
)

var (
	ErrProviderNotFound        = errs.New("provider not found")
	ErrBookingNotFound         = errs.New("booking not found")
	ErrSlotConflict            = errs.New("time slot already booked")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrPriceMismatch           = errs.New("total does not match provider rate")
	ErrPaymentProvider         = errs.New("payment authorization failed")
	ErrNotCancellable          = errs.New("booking can no longer be cancelled")
	ErrDuplicateRequest        = errs.New("duplicate request with different parameters")
	ErrIdempotencyInProgress   = errs.New("request is already being processed")
	ErrIdempotencyCheckFailed  = errs.New("idempotency check failed")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

const (
	createBookingEndpoint = "POST /bookings"
	defaultDurationHours  = 2
	idempotencyKeyTTL     = 24 * time.Hour
)

type CreateBookingInput struct {
	ProviderID  uuid.UUID
	ServiceType string
	Date        string
	TimeSlot    string
	Address     string
	Notes       string
	Hours       int
	TotalCents  int64
}

type CreateBookingResult struct {
	Booking *queries.BookingView
	// ClientSecret is only populated for fresh creations. Replays return the
	// persisted booking without re-exposing the secret.
	ClientSecret string
	IsReplayed   bool
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, input CreateBookingInput, customerID, idempotencyKey uuid.UUID) (*CreateBookingResult, error)
	CancelBooking(ctx context.Context, id, customerID uuid.UUID) error
}

type bookingUseCaseImpl struct {
	bookingRepo     BookingRepository
	providerReads   ProviderReadStore
	idempotencyRepo IdempotencyRepository
	payments        PaymentGateway
	bookingQueries  queries.BookingQueries
	uow             UnitOfWork
	clock           clock.Clock
	currency        string
}

func NewBookingCommands(
	bookingRepo BookingRepository,
	providerReads ProviderReadStore,
	idempotencyRepo IdempotencyRepository,
	payments PaymentGateway,
	bookingQueries queries.BookingQueries,
	uow UnitOfWork,
	clock clock.Clock,
	currency string,
) BookingCommands {
	return &bookingUseCaseImpl{
		bookingRepo:     bookingRepo,
		providerReads:   providerReads,
		idempotencyRepo: idempotencyRepo,
		payments:        payments,
		bookingQueries:  bookingQueries,
		uow:             uow,
		clock:           clock,
		currency:        currency,
	}
}

// CreateBooking runs the full lifecycle entry: dedupe on the idempotency key,
// price the job from the provider's rate, insert the row in pending_payment
// (the insert arbitrates slot conflicts), then open the escrow authorization
// and attach its reference. The row is persisted before the provider call so
// a failure after authorization always leaves something to reconcile against.
func (u *bookingUseCaseImpl) CreateBooking(
	ctx context.Context,
	input CreateBookingInput,
	customerID, idempotencyKey uuid.UUID,
) (*CreateBookingResult, error) {
	requestHash := calculateRequestHash(input)
	expiresAt := u.clock.Now().Add(idempotencyKeyTTL)

	inserted, err := u.idempotencyRepo.TryInsert(ctx, idempotencyKey, customerID, createBookingEndpoint, requestHash, expiresAt)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}
	if !inserted {
		replayed, err := u.resolveExistingKey(ctx, idempotencyKey, customerID, requestHash)
		if err != nil {
			return nil, err
		}
		return replayed, nil
	}

	return u.createNewBooking(ctx, input, customerID, idempotencyKey)
}

func (u *bookingUseCaseImpl) resolveExistingKey(
	ctx context.Context,
	idempotencyKey, customerID uuid.UUID,
	requestHash string,
) (*CreateBookingResult, error) {
	existing, err := u.idempotencyRepo.Get(ctx, idempotencyKey, customerID)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}

	if existing.RequestHash != requestHash {
		return nil, ErrDuplicateRequest
	}

	switch existing.Status {
	case "completed":
		if existing.ResultBookingID == nil {
			return nil, errs.New("completed idempotency key missing result booking ID")
		}
		view, err := u.bookingQueries.GetByIDSystem(ctx, *existing.ResultBookingID)
		if err != nil {
			return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
		}
		return &CreateBookingResult{Booking: view, IsReplayed: true}, nil

	case "processing":
		return nil, ErrIdempotencyInProgress

	default:
		return nil, errs.New("invalid idempotency key status")
	}
}

func (u *bookingUseCaseImpl) createNewBooking(
	ctx context.Context,
	input CreateBookingInput,
	customerID, idempotencyKey uuid.UUID,
) (*CreateBookingResult, error) {
	providerEntity, err := u.lookupProvider(ctx, input.ProviderID)
	if err != nil {
		u.releaseIdempotencyKey(ctx, idempotencyKey, customerID)
		return nil, err
	}

	hours := input.Hours
	if hours == 0 {
		hours = defaultDurationHours
	}

	// The provider's rate is authoritative. A client total that disagrees is
	// rejected instead of silently trusted.
	if input.TotalCents != providerEntity.QuoteCents(hours) {
		u.releaseIdempotencyKey(ctx, idempotencyKey, customerID)
		return nil, ErrPriceMismatch
	}

	bookingEntity, err := newBookingFromInput(input, customerID, hours)
	if err != nil {
		u.releaseIdempotencyKey(ctx, idempotencyKey, customerID)
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		return u.bookingRepo.Create(ctx, tx, bookingEntity)
	})
	if err != nil {
		u.releaseIdempotencyKey(ctx, idempotencyKey, customerID)
		if infra.IsKind(err, infra.KindConflict) {
			return nil, ErrSlotConflict
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	auth, err := u.authorizePayment(ctx, input, bookingEntity, providerEntity)
	if err != nil {
		// Compensate: the slot must not stay blocked by a booking that can
		// never be paid, and the key must not replay a failed creation.
		if _, cancelErr := u.bookingRepo.CancelPending(ctx, bookingEntity.ID()); cancelErr != nil {
			slog.Error("failed to cancel booking after authorization failure",
				"booking_id", bookingEntity.ID(), "error", cancelErr.Error())
		}
		u.releaseIdempotencyKey(ctx, idempotencyKey, customerID)
		return nil, errs.Mark(err, ErrPaymentProvider)
	}

	if err := u.bookingRepo.AttachPaymentRef(ctx, bookingEntity.ID(), auth.Ref); err != nil {
		// The authorization exists but nothing references it; void it and
		// release the slot. The stale-booking reaper is the backstop if
		// either compensation fails here.
		slog.Error("failed to attach payment ref, voiding authorization",
			"booking_id", bookingEntity.ID(), "payment_ref", auth.Ref, "error", err.Error())
		if voidErr := u.payments.Void(ctx, auth.Ref); voidErr != nil {
			slog.Error("failed to void orphaned authorization",
				"payment_ref", auth.Ref, "error", voidErr.Error())
		}
		if _, cancelErr := u.bookingRepo.CancelPending(ctx, bookingEntity.ID()); cancelErr != nil {
			slog.Error("failed to cancel booking after attach failure",
				"booking_id", bookingEntity.ID(), "error", cancelErr.Error())
		}
		u.releaseIdempotencyKey(ctx, idempotencyKey, customerID)
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	// Only now has the creation fully succeeded; marking earlier would let a
	// replay return a booking whose payment never got authorized. A failure
	// here leaves the key processing until it expires, which 409s retries of
	// this key but never misreports the booking.
	if err := u.idempotencyRepo.UpdateStatusCompleted(ctx, idempotencyKey, customerID, bookingEntity.ID()); err != nil {
		slog.Error("failed to complete idempotency key",
			"key", idempotencyKey, "booking_id", bookingEntity.ID(), "error", err.Error())
	}

	view, err := u.bookingQueries.GetByIDSystem(ctx, bookingEntity.ID())
	if err != nil {
		// The booking and its authorization are consistent; a retry of the
		// same key replays them from the completed record.
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return &CreateBookingResult{
		Booking:      view,
		ClientSecret: auth.ClientSecret,
		IsReplayed:   false,
	}, nil
}

// CancelBooking lets the customer abandon a booking that still awaits
// payment. The attached authorization, if any, is voided best-effort; the
// reaper retries orphans.
func (u *bookingUseCaseImpl) CancelBooking(ctx context.Context, id, customerID uuid.UUID) error {
	view, err := u.bookingQueries.GetByIDSystem(ctx, id)
	if err != nil {
		return errs.Mark(err, ErrBookingNotFound)
	}
	if view.CustomerID != customerID {
		return ErrBookingNotFound
	}
	if view.Status != booking.StatusPendingPayment.String() {
		return ErrNotCancellable
	}

	rows, err := u.bookingRepo.CancelPending(ctx, id)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if rows == 0 {
		// Lost the race against a webhook transition.
		return ErrNotCancellable
	}

	if view.PaymentRef != nil {
		if err := u.payments.Void(ctx, *view.PaymentRef); err != nil {
			slog.Error("failed to void authorization for cancelled booking",
				"booking_id", id, "payment_ref", *view.PaymentRef, "error", err.Error())
		}
	}
	return nil
}

// releaseIdempotencyKey frees a claimed key after a failed creation so the
// caller's retry is not pinned to the failure until the key expires.
func (u *bookingUseCaseImpl) releaseIdempotencyKey(ctx context.Context, key, customerID uuid.UUID) {
	if err := u.idempotencyRepo.Delete(ctx, key, customerID); err != nil {
		slog.Error("failed to release idempotency key",
			"key", key, "error", err.Error())
	}
}

func (u *bookingUseCaseImpl) lookupProvider(ctx context.Context, id uuid.UUID) (*provider.Provider, error) {
	snap, err := u.providerReads.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !snap.IsActive {
		return nil, ErrProviderNotFound
	}

	return provider.NewProvider(snap.ID, snap.DisplayName, snap.Category, snap.HourlyRateCents, snap.IsVerified, snap.IsActive)
}

func (u *bookingUseCaseImpl) authorizePayment(
	ctx context.Context,
	input CreateBookingInput,
	b *booking.Booking,
	p *provider.Provider,
) (*Authorization, error) {
	return u.payments.Authorize(ctx, AuthorizationRequest{
		AmountCents: b.Total().Cents(),
		Currency:    u.currency,
		Description: "TaskBridge: " + input.ServiceType + " with " + p.DisplayName(),
		Metadata: map[string]string{
			"customer_id": b.CustomerID().String(),
			"provider_id": b.ProviderID().String(),
			"date":        b.Date().String(),
			"time_slot":   b.TimeSlot().String(),
		},
	})
}

func newBookingFromInput(input CreateBookingInput, customerID uuid.UUID, hours int) (*booking.Booking, error) {
	date, err := booking.NewServiceDate(input.Date)
	if err != nil {
		return nil, err
	}
	slot, err := booking.NewTimeSlot(input.TimeSlot)
	if err != nil {
		return nil, err
	}
	address, err := booking.NewAddress(input.Address)
	if err != nil {
		return nil, err
	}
	total, err := booking.NewMoney(input.TotalCents)
	if err != nil {
		return nil, err
	}

	return booking.NewBooking(
		customerID,
		input.ProviderID,
		input.ServiceType,
		date,
		slot,
		hours,
		total,
		address,
		booking.NewNote(input.Notes),
	)
}

func calculateRequestHash(input CreateBookingInput) string {
	data, _ := json.Marshal(input)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
