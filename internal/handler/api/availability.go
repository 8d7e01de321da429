package api

import (
	"net/http"
	"slices"

	"taskbridge-server/internal/domain/booking"
	resdto "taskbridge-server/internal/handler/dto/response"
	"taskbridge-server/internal/handler/httperr"
	"taskbridge-server/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	availabilityQueries queries.AvailabilityQueries
}

func NewAvailabilityHandler(availabilityQueries queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityQueries: availabilityQueries,
	}
}

// @Summary Get slot availability
// @Description List taken and open time slots for a provider on a date
// @Tags availability
// @Produce json
// @Param providerId query string true "Provider ID"
// @Param date query string true "Service date (YYYY-MM-DD)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Router /availability [get]
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	providerIDStr := c.Query("providerId")
	dateStr := c.Query("date")
	if providerIDStr == "" || dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "providerId and date are required",
		})
		return
	}

	providerID, err := uuid.Parse(providerIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid provider ID format",
		})
		return
	}

	date, err := booking.NewServiceDate(dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date format, expected YYYY-MM-DD",
		})
		return
	}

	taken, err := h.availabilityQueries.TakenSlots(c.Request.Context(), providerID, date)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	open := make([]string, 0, len(booking.AllTimeSlots()))
	for _, slot := range booking.AllTimeSlots() {
		if !slices.Contains(taken, slot) {
			open = append(open, slot)
		}
	}

	c.JSON(http.StatusOK, resdto.AvailabilityResponse{
		Date:       date.String(),
		ProviderID: providerID.String(),
		TakenSlots: taken,
		OpenSlots:  open,
	})
}
