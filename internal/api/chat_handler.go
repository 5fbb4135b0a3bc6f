package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coresync/coach/internal/domain"
	"coresync/coach/internal/service"
)

type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// --- DTOs ---

type ChatRequest struct {
	Messages []domain.Message `json:"messages"`
	UserID   string           `json:"userId,omitempty"`
	UserName string           `json:"userName,omitempty"`
}

// Chat godoc
// @Summary Intake chat with the coach
// @Description Runs one turn of the intake conversation. Saves a plan when the coach has gathered enough.
// @Tags Chat
// @Accept json
// @Produce json
// @Param chat body ChatRequest true "Conversation so far"
// @Success 200 {object} service.ChatResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 500 {object} gin.H "Model unavailable or not configured"
// @Router /api/chatbot [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "messages must be a non-empty array")
		return
	}

	sessionUserID, _ := getUserIDFromContext(c) // Empty for anonymous requests

	resp, err := h.chatService.Chat(c.Request.Context(), service.ChatRequest{
		Messages:      req.Messages,
		UserID:        req.UserID,
		SessionUserID: sessionUserID,
		UserName:      req.UserName,
	})
	if err != nil {
		_ = c.Error(err)
		abortWithError(c, statusForError(err), service.PublicMessage(err, "Failed to contact Gemini"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
