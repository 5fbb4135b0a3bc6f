package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coresync/coach/internal/coerce"
	"coresync/coach/internal/domain"
	"coresync/coach/internal/service"
)

type ProgramHandler struct {
	programService service.ProgramService
}

func NewProgramHandler(programService service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// --- DTOs ---

type ProgramResponse struct {
	Success bool                   `json:"success"`
	Data    *service.ProgramResult `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// attributesFromBody reads the voice tool's flat payload. Values may be strings or numbers.
func attributesFromBody(body map[string]any) domain.ProgramAttributes {
	return domain.ProgramAttributes{
		UserID:              coerce.Text(body["user_id"]),
		Age:                 coerce.Text(body["age"]),
		Height:              coerce.Text(body["height"]),
		Weight:              coerce.Text(body["weight"]),
		Injuries:            coerce.Text(body["injuries"]),
		WorkoutDays:         coerce.Text(body["workout_days"]),
		FitnessGoal:         coerce.Text(body["fitness_goal"]),
		FitnessLevel:        coerce.Text(body["fitness_level"]),
		DietaryRestrictions: coerce.Text(body["dietary_restrictions"]),
	}
}

// GenerateProgram godoc
// @Summary Generate and save a plan from voice intake
// @Description Called by the voice assistant once intake is complete. Generates the workout and diet plans and stores them as the user's active plan.
// @Tags Program
// @Accept json
// @Produce json
// @Success 200 {object} ProgramResponse
// @Failure 400 {object} ProgramResponse "Missing user_id or malformed body"
// @Failure 500 {object} ProgramResponse "Generation or persistence failed"
// @Router /vapi/generate-program [post]
func (h *ProgramHandler) GenerateProgram(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ProgramResponse{Error: "Invalid request body"})
		return
	}

	result, err := h.programService.GenerateProgram(c.Request.Context(), attributesFromBody(body))
	if err != nil {
		_ = c.Error(err)
		c.AbortWithStatusJSON(statusForError(err), ProgramResponse{Error: service.PublicMessage(err, "Failed to generate program")})
		return
	}
	c.JSON(http.StatusOK, ProgramResponse{Success: true, Data: result})
}
