//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"taskbridge-server/internal/handler/api"
	"taskbridge-server/internal/usecase/commands"
	"taskbridge-server/tests/common/httptest"
	commandsmock "taskbridge-server/tests/mock/commands"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type WebhookHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockWebhookCommands
	handler      *api.WebhookHandler
}

func (s *WebhookHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockWebhookCommands(s.mockCtrl)
	s.handler = api.NewWebhookHandler(s.mockCommands)

	s.router.POST("/payments/webhook", s.handler.HandleWebhook)
}

func (s *WebhookHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestWebhookHandlerSuite(t *testing.T) {
	suite.Run(t, new(WebhookHandlerTestSuite))
}

func (s *WebhookHandlerTestSuite) TestHandleWebhook() {
	url := "/payments/webhook"
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	headers := map[string]string{"Stripe-Signature": "t=1756684800,v1=deadbeef"}

	s.Run("success: returns 200 with received ack", func() {
		s.mockCommands.EXPECT().Process(gomock.Any(), payload, headers["Stripe-Signature"]).
			Return(nil).Times(1)

		rec := httptest.PerformRawRequest(s.T(), s.router, http.MethodPost, url, payload, headers)

		var body map[string]bool
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.True(body["received"])
	})

	s.Run("error: 400 for invalid signature", func() {
		// The sentinel arrives as a mark, not in the wrap chain.
		s.mockCommands.EXPECT().Process(gomock.Any(), payload, gomock.Any()).
			Return(errors.Mark(errors.New("bad signature"), commands.ErrInvalidSignature)).Times(1)

		rec := httptest.PerformRawRequest(s.T(), s.router, http.MethodPost, url, payload, headers)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "signature")
	})

	s.Run("error: 500 on processing failure so the provider retries", func() {
		s.mockCommands.EXPECT().Process(gomock.Any(), payload, gomock.Any()).
			Return(errors.Mark(errors.New("db down"), commands.ErrWebhookHandling)).Times(1)

		rec := httptest.PerformRawRequest(s.T(), s.router, http.MethodPost, url, payload, headers)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "")
	})
}
