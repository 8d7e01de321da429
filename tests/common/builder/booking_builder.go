//go:build unit || e2e

package builder

import (
	"time"

	dombooking "taskbridge-server/internal/domain/booking"
	reqdto "taskbridge-server/internal/handler/dto/request"
	"taskbridge-server/internal/usecase/commands"
	"taskbridge-server/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	CustomerID   uuid.UUID
	ProviderID   uuid.UUID
	ProviderName string
	ServiceType  string
	Date         string
	TimeSlot     string
	Hours        int
	TotalCents   int64
	Address      string
	Notes        string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Now()
	return &BookingBuilder{
		CustomerID:   uuid.New(),
		ProviderID:   uuid.New(),
		ProviderName: "Clean Sweep Co",
		ServiceType:  "House Cleaning",
		Date:         "2026-09-15",
		TimeSlot:     "10:00 AM",
		Hours:        2,
		TotalCents:   10000,
		Address:      "123 Main St, Toronto",
		Notes:        "Ring the doorbell twice",
		Status:       "pending_payment",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	date, err := dombooking.NewServiceDate(b.Date)
	if err != nil {
		return nil, err
	}
	slot, err := dombooking.NewTimeSlot(b.TimeSlot)
	if err != nil {
		return nil, err
	}
	address, err := dombooking.NewAddress(b.Address)
	if err != nil {
		return nil, err
	}
	total, err := dombooking.NewMoney(b.TotalCents)
	if err != nil {
		return nil, err
	}
	return dombooking.NewBooking(
		b.CustomerID,
		b.ProviderID,
		b.ServiceType,
		date,
		slot,
		b.Hours,
		total,
		address,
		dombooking.NewNote(b.Notes),
	)
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	notes := b.Notes
	return reqdto.CreateBookingRequest{
		ProviderID:  b.ProviderID,
		ServiceType: b.ServiceType,
		Date:        b.Date,
		TimeSlot:    b.TimeSlot,
		Address:     b.Address,
		Notes:       &notes,
		Hours:       b.Hours,
		TotalCents:  b.TotalCents,
	}
}

func (b *BookingBuilder) BuildCreateInput() commands.CreateBookingInput {
	return commands.CreateBookingInput{
		ProviderID:  b.ProviderID,
		ServiceType: b.ServiceType,
		Date:        b.Date,
		TimeSlot:    b.TimeSlot,
		Address:     b.Address,
		Notes:       b.Notes,
		Hours:       b.Hours,
		TotalCents:  b.TotalCents,
	}
}

func (b *BookingBuilder) BuildViewQuery() *queries.BookingView {
	id := uuid.New()
	notes := b.Notes
	return &queries.BookingView{
		ID:               id,
		CustomerID:       b.CustomerID,
		ProviderID:       b.ProviderID,
		ProviderName:     b.ProviderName,
		ServiceType:      b.ServiceType,
		Date:             b.Date,
		TimeSlot:         b.TimeSlot,
		DurationHours:    int32(b.Hours),
		Status:           b.Status,
		TotalCents:       b.TotalCents,
		PlatformFeeCents: dombooking.PlatformFeeCents(b.TotalCents),
		Notes:            &notes,
		Address:          b.Address,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

func (b *BookingBuilder) BuildListItem() *queries.BookingListItem {
	id := uuid.New()
	return &queries.BookingListItem{
		ID:           id,
		ProviderID:   b.ProviderID,
		ProviderName: b.ProviderName,
		ServiceType:  b.ServiceType,
		Date:         b.Date,
		TimeSlot:     b.TimeSlot,
		Status:       b.Status,
		TotalCents:   b.TotalCents,
		CreatedAt:    b.CreatedAt,
	}
}

func (b *BookingBuilder) BuildProviderSnapshot() *queries.ProviderSnapshot {
	// Rate chosen so the default two-hour job prices to TotalCents exactly.
	return &queries.ProviderSnapshot{
		ID:              b.ProviderID,
		DisplayName:     b.ProviderName,
		Category:        "cleaning",
		HourlyRateCents: b.TotalCents / int64(b.Hours),
		IsVerified:      true,
		IsActive:        true,
	}
}

// Fluent builder methods
func (b *BookingBuilder) WithCustomerID(id uuid.UUID) *BookingBuilder {
	b.CustomerID = id
	return b
}

func (b *BookingBuilder) WithProviderID(id uuid.UUID) *BookingBuilder {
	b.ProviderID = id
	return b
}

func (b *BookingBuilder) WithDate(date string) *BookingBuilder {
	b.Date = date
	return b
}

func (b *BookingBuilder) WithTimeSlot(slot string) *BookingBuilder {
	b.TimeSlot = slot
	return b
}

func (b *BookingBuilder) WithHours(hours int) *BookingBuilder {
	b.Hours = hours
	return b
}

func (b *BookingBuilder) WithTotalCents(cents int64) *BookingBuilder {
	b.TotalCents = cents
	return b
}

func (b *BookingBuilder) WithAddress(address string) *BookingBuilder {
	b.Address = address
	return b
}

func (b *BookingBuilder) WithNotes(notes string) *BookingBuilder {
	b.Notes = notes
	return b
}

func (b *BookingBuilder) WithStatus(status string) *BookingBuilder {
	b.Status = status
	return b
}
