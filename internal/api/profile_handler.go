package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"coresync/coach/internal/service"
)

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetActivePlan godoc
// @Summary Get my active plan
// @Description Returns the signed-in user's active plan with a temporary download link when exports are enabled.
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ActivePlan
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "No active plan"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /api/plans/active [get]
func (h *ProfileHandler) GetActivePlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return
	}

	plan, err := h.profileService.ActivePlan(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoActivePlan) {
			abortWithError(c, http.StatusNotFound, "No active plan found")
			return
		}
		_ = c.Error(err)
		abortWithError(c, statusForError(err), service.PublicMessage(err, "Failed to retrieve plan."))
		return
	}
	c.JSON(http.StatusOK, plan)
}

// GetVoiceConfig godoc
// @Summary Voice assistant configuration
// @Description Returns the assistant id and the variables the assistant greets the user with.
// @Tags Profile
// @Produce json
// @Param name query string false "Display name used when the user is not signed in"
// @Success 200 {object} service.VoiceSession
// @Router /api/voice/config [get]
func (h *ProfileHandler) GetVoiceConfig(c *gin.Context) {
	userID, _ := getUserIDFromContext(c)

	session, err := h.profileService.VoiceSession(c.Request.Context(), userID, c.Query("name"))
	if err != nil {
		_ = c.Error(err)
		abortWithError(c, statusForError(err), service.PublicMessage(err, "Failed to load voice configuration."))
		return
	}
	c.JSON(http.StatusOK, session)
}
