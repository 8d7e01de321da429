//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"taskbridge-server/internal/domain/booking"
	"taskbridge-server/internal/handler/api"
	"taskbridge-server/tests/common/httptest"
	queriesmock "taskbridge-server/tests/mock/queries"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AvailabilityHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockQueries *queriesmock.MockAvailabilityQueries
	handler     *api.AvailabilityHandler
}

func (s *AvailabilityHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockAvailabilityQueries(s.mockCtrl)
	s.handler = api.NewAvailabilityHandler(s.mockQueries)

	s.router.GET("/availability", s.handler.GetAvailability)
}

func (s *AvailabilityHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAvailabilityHandlerSuite(t *testing.T) {
	suite.Run(t, new(AvailabilityHandlerTestSuite))
}

func (s *AvailabilityHandlerTestSuite) TestGetAvailability() {
	providerID := uuid.New()
	date, _ := booking.NewServiceDate("2026-09-15")
	url := "/availability?providerId=" + providerID.String() + "&date=2026-09-15"

	s.Run("success: taken and open slots partition the grid", func() {
		taken := []string{"10:00 AM", "2:00 PM"}
		s.mockQueries.EXPECT().TakenSlots(gomock.Any(), providerID, date).
			Return(taken, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(providerID.String(), body["providerId"])
		s.Equal("2026-09-15", body["date"])
		s.Len(body["takenSlots"], 2)
		s.Len(body["openSlots"], len(booking.AllTimeSlots())-2)
		s.NotContains(body["openSlots"], "10:00 AM")
		s.Contains(body["openSlots"], "8:00 AM")
	})

	s.Run("success: fully open day returns the whole grid", func() {
		s.mockQueries.EXPECT().TakenSlots(gomock.Any(), providerID, date).
			Return([]string{}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Empty(body["takenSlots"])
		s.Len(body["openSlots"], len(booking.AllTimeSlots()))
	})

	s.Run("error: 400 when parameters are missing", func() {
		for _, u := range []string{"/availability", "/availability?providerId=" + providerID.String(), "/availability?date=2026-09-15"} {
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, u, nil, "")
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "required")
		}
	})

	s.Run("error: 400 for malformed provider ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/availability?providerId=nope&date=2026-09-15", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: 400 for malformed date", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/availability?providerId="+providerID.String()+"&date=15-09-2026", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: 500 when the read store fails", func() {
		s.mockQueries.EXPECT().TakenSlots(gomock.Any(), providerID, date).
			Return(nil, errors.New("db down")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "")
	})
}
