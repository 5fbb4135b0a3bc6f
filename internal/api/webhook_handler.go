package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"coresync/coach/internal/service"
)

// Deliveries larger than this are rejected before verification.
const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	webhookService service.WebhookService
}

func NewWebhookHandler(webhookService service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

// ClerkWebhook godoc
// @Summary Receive identity-provider user events
// @Description Verifies the svix signature over the raw body and mirrors user.created / user.updated into the store.
// @Tags Webhooks
// @Accept json
// @Produce plain
// @Success 200 {string} string "ok"
// @Failure 400 {string} string "No svix headers found / Error occurred"
// @Failure 500 {string} string "CLERK_WEBHOOK_SECRET is not set"
// @Router /clerk-webhook [post]
func (h *WebhookHandler) ClerkWebhook(c *gin.Context) {
	// Signatures cover the exact bytes, so the body is never re-encoded
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		c.String(http.StatusBadRequest, "Error occurred")
		return
	}

	if err := h.webhookService.HandleClerkEvent(c.Request.Context(), c.Request.Header, body); err != nil {
		_ = c.Error(err)
		c.String(statusForError(err), service.PublicMessage(err, "Error occurred"))
		return
	}
	c.String(http.StatusOK, "ok")
}
