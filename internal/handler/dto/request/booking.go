package request

import (
	"strings"

	"taskbridge-server/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	ProviderID  uuid.UUID `json:"providerId" binding:"required"`
	ServiceType string    `json:"serviceType" binding:"required"`
	Date        string    `json:"date" binding:"required"`
	TimeSlot    string    `json:"timeSlot" binding:"required"`
	Address     string    `json:"address" binding:"required"`
	Notes       *string   `json:"notes,omitempty"`
	// Hours defaults to the standard two-hour job when omitted.
	Hours      int   `json:"hours,omitempty"`
	TotalCents int64 `json:"totalCents" binding:"required"`
}

func (r CreateBookingRequest) GetNotes() string {
	if r.Notes == nil {
		return ""
	}
	return strings.TrimSpace(*r.Notes)
}

func (r CreateBookingRequest) ToInput() commands.CreateBookingInput {
	return commands.CreateBookingInput{
		ProviderID:  r.ProviderID,
		ServiceType: strings.TrimSpace(r.ServiceType),
		Date:        r.Date,
		TimeSlot:    r.TimeSlot,
		Address:     r.Address,
		Notes:       r.GetNotes(),
		Hours:       r.Hours,
		TotalCents:  r.TotalCents,
	}
}
