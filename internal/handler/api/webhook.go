package api

import (
	"io"
	"net/http"

	resdto "taskbridge-server/internal/handler/dto/response"
	"taskbridge-server/internal/handler/httperr"
	"taskbridge-server/internal/pkg/errs"
	"taskbridge-server/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// Stripe payloads stay well under this; cap the read to bound memory.
const maxWebhookBodyBytes = 1 << 16

type WebhookHandler struct {
	webhookCommands commands.WebhookCommands
}

func NewWebhookHandler(webhookCommands commands.WebhookCommands) *WebhookHandler {
	return &WebhookHandler{
		webhookCommands: webhookCommands,
	}
}

// @Summary Payment webhook
// @Description Receive payment events from the payment provider
// @Tags payments
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Webhook signature"
// @Success 200 {object} resdto.WebhookAckResponse
// @Failure 400 {object} map[string]string
// @Router /payments/webhook [post]
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read request body",
		})
		return
	}

	signature := c.GetHeader("Stripe-Signature")

	if err := h.webhookCommands.Process(c.Request.Context(), payload, signature); err != nil {
		if errs.Is(err, commands.ErrInvalidSignature) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid webhook signature",
			})
			return
		}
		// Non-2xx tells the provider to retry the delivery later.
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to process webhook", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.WebhookAckResponse{Received: true})
}
