package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID               uuid.UUID `json:"id"`
	CustomerID       uuid.UUID `json:"customer_id"`
	ProviderID       uuid.UUID `json:"provider_id"`
	ProviderName     string    `json:"provider_name"`
	ServiceType      string    `json:"service_type"`
	Date             string    `json:"date"`
	TimeSlot         string    `json:"time_slot"`
	DurationHours    int32     `json:"duration_hours"`
	Status           string    `json:"status"`
	TotalCents       int64     `json:"total_cents"`
	PlatformFeeCents int64     `json:"platform_fee_cents"`
	PaymentRef       *string   `json:"payment_ref,omitempty"`
	Notes            *string   `json:"notes,omitempty"`
	Address          string    `json:"address"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type BookingListItem struct {
	ID           uuid.UUID `json:"id"`
	ProviderID   uuid.UUID `json:"provider_id"`
	ProviderName string    `json:"provider_name"`
	ServiceType  string    `json:"service_type"`
	Date         string    `json:"date"`
	TimeSlot     string    `json:"time_slot"`
	Status       string    `json:"status"`
	TotalCents   int64     `json:"total_cents"`
	CreatedAt    time.Time `json:"created_at"`
}

type ProviderSnapshot struct {
	ID              uuid.UUID `json:"id"`
	DisplayName     string    `json:"display_name"`
	Category        string    `json:"category"`
	HourlyRateCents int64     `json:"hourly_rate_cents"`
	IsVerified      bool      `json:"is_verified"`
	IsActive        bool      `json:"is_active"`
}

type IdempotencyRecord struct {
	Key             uuid.UUID  `json:"key"`
	UserID          uuid.UUID  `json:"user_id"`
	Endpoint        string     `json:"endpoint"`
	RequestHash     string     `json:"request_hash"`
	Status          string     `json:"status"`
	ResultBookingID *uuid.UUID `json:"result_booking_id,omitempty"`
	ExpiresAt       time.Time  `json:"expires_at"`
}
