package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidHours       = errors.New("duration must be at least one hour")
	ErrMissingProvider    = errors.New("provider is required")
	ErrMissingCustomer    = errors.New("customer is required")
	ErrTerminalStatus     = errors.New("booking is in a terminal status")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrPaymentRefAttached = errors.New("payment reference already attached")
)

// Booking is one scheduled job between a customer and a provider. Status
// transitions go through Confirm/Cancel only; nothing else writes status.
type Booking struct {
	id            uuid.UUID
	customerID    uuid.UUID
	providerID    uuid.UUID
	serviceType   string
	date          ServiceDate
	timeSlot      TimeSlot
	durationHours int
	status        Status
	total         Money
	platformFee   int64
	paymentRef    *string
	note          Note
	address       Address
	createdAt     time.Time
	updatedAt     time.Time
}

// NewBooking creates a booking in pending_payment with the platform fee
// derived from the total. The payment reference is attached after the
// authorization is opened.
func NewBooking(
	customerID, providerID uuid.UUID,
	serviceType string,
	date ServiceDate,
	timeSlot TimeSlot,
	durationHours int,
	total Money,
	address Address,
	note Note,
) (*Booking, error) {
	if customerID == uuid.Nil {
		return nil, ErrMissingCustomer
	}
	if providerID == uuid.Nil {
		return nil, ErrMissingProvider
	}
	if durationHours < 1 {
		return nil, ErrInvalidHours
	}

	return &Booking{
		id:            uuid.New(),
		customerID:    customerID,
		providerID:    providerID,
		serviceType:   serviceType,
		date:          date,
		timeSlot:      timeSlot,
		durationHours: durationHours,
		status:        StatusPendingPayment,
		total:         total,
		platformFee:   PlatformFeeCents(total.Cents()),
		note:          note,
		address:       address,
	}, nil
}

func ReconstructBooking(
	id, customerID, providerID uuid.UUID,
	serviceType string,
	date ServiceDate,
	timeSlot TimeSlot,
	durationHours int,
	status Status,
	total Money,
	platformFee int64,
	paymentRef *string,
	note Note,
	address Address,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		customerID:    customerID,
		providerID:    providerID,
		serviceType:   serviceType,
		date:          date,
		timeSlot:      timeSlot,
		durationHours: durationHours,
		status:        status,
		total:         total,
		platformFee:   platformFee,
		paymentRef:    paymentRef,
		note:          note,
		address:       address,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// AttachPaymentRef records the external authorization reference. A booking
// carries at most one authorization for its lifetime.
func (b *Booking) AttachPaymentRef(ref string) error {
	if b.paymentRef != nil {
		return ErrPaymentRefAttached
	}
	b.paymentRef = &ref
	return nil
}

// Confirm applies the successful-payment outcome. Re-confirming a confirmed
// booking is a no-op; terminal bookings never resurrect.
func (b *Booking) Confirm() error {
	if b.status == StatusConfirmed {
		return nil
	}
	if b.status.IsTerminal() {
		return ErrTerminalStatus
	}
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return ErrInvalidTransition
	}
	b.status = StatusConfirmed
	return nil
}

// Cancel applies the failed-payment or customer-cancellation outcome.
// Idempotent for already-cancelled bookings.
func (b *Booking) Cancel() error {
	if b.status == StatusCancelled {
		return nil
	}
	if b.status.IsTerminal() {
		return ErrTerminalStatus
	}
	b.status = StatusCancelled
	return nil
}

func (b *Booking) IsActive() bool {
	return b.status.IsActive()
}

func (b *Booking) ID() uuid.UUID          { return b.id }
func (b *Booking) CustomerID() uuid.UUID  { return b.customerID }
func (b *Booking) ProviderID() uuid.UUID  { return b.providerID }
func (b *Booking) ServiceType() string    { return b.serviceType }
func (b *Booking) Date() ServiceDate      { return b.date }
func (b *Booking) TimeSlot() TimeSlot     { return b.timeSlot }
func (b *Booking) DurationHours() int     { return b.durationHours }
func (b *Booking) Status() Status         { return b.status }
func (b *Booking) Total() Money           { return b.total }
func (b *Booking) PlatformFeeCents() int64 { return b.platformFee }
func (b *Booking) PaymentRef() *string    { return b.paymentRef }
func (b *Booking) Note() Note             { return b.note }
func (b *Booking) Address() Address       { return b.address }
func (b *Booking) CreatedAt() time.Time   { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time   { return b.updatedAt }
