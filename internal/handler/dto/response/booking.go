package response

import (
	"time"

	"taskbridge-server/internal/usecase/queries"

	"github.com/google/uuid"
)

// CreateBookingResponse is returned from booking creation. ClientSecret is
// present only on first creation; idempotent replays omit it.
type CreateBookingResponse struct {
	BookingID    uuid.UUID `json:"bookingId"`
	ClientSecret string    `json:"clientSecret,omitempty"`
}

type BookingResponse struct {
	ID               uuid.UUID `json:"id"`
	CustomerID       uuid.UUID `json:"customerId"`
	ProviderID       uuid.UUID `json:"providerId"`
	ProviderName     string    `json:"providerName"`
	ServiceType      string    `json:"serviceType"`
	Date             string    `json:"date"`
	TimeSlot         string    `json:"timeSlot"`
	DurationHours    int32     `json:"durationHours"`
	Status           string    `json:"status"`
	TotalCents       int64     `json:"totalCents"`
	PlatformFeeCents int64     `json:"platformFeeCents"`
	Notes            *string   `json:"notes,omitempty"`
	Address          string    `json:"address"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type BookingListResponse struct {
	ID           uuid.UUID `json:"id"`
	ProviderID   uuid.UUID `json:"providerId"`
	ProviderName string    `json:"providerName"`
	ServiceType  string    `json:"serviceType"`
	Date         string    `json:"date"`
	TimeSlot     string    `json:"timeSlot"`
	Status       string    `json:"status"`
	TotalCents   int64     `json:"totalCents"`
	CreatedAt    time.Time `json:"createdAt"`
}

type AvailabilityResponse struct {
	Date       string   `json:"date"`
	ProviderID string   `json:"providerId"`
	TakenSlots []string `json:"takenSlots"`
	OpenSlots  []string `json:"openSlots"`
}

type WebhookAckResponse struct {
	Received bool `json:"received"`
}

func FromBookingView(rm *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:               rm.ID,
		CustomerID:       rm.CustomerID,
		ProviderID:       rm.ProviderID,
		ProviderName:     rm.ProviderName,
		ServiceType:      rm.ServiceType,
		Date:             rm.Date,
		TimeSlot:         rm.TimeSlot,
		DurationHours:    rm.DurationHours,
		Status:           rm.Status,
		TotalCents:       rm.TotalCents,
		PlatformFeeCents: rm.PlatformFeeCents,
		Notes:            rm.Notes,
		Address:          rm.Address,
		CreatedAt:        rm.CreatedAt,
		UpdatedAt:        rm.UpdatedAt,
	}
}

func FromBookingListItem(rm *queries.BookingListItem) *BookingListResponse {
	return &BookingListResponse{
		ID:           rm.ID,
		ProviderID:   rm.ProviderID,
		ProviderName: rm.ProviderName,
		ServiceType:  rm.ServiceType,
		Date:         rm.Date,
		TimeSlot:     rm.TimeSlot,
		Status:       rm.Status,
		TotalCents:   rm.TotalCents,
		CreatedAt:    rm.CreatedAt,
	}
}
