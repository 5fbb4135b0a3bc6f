package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"coresync/coach/internal/domain"
	"coresync/coach/internal/llm"
	"coresync/coach/internal/llm/llmtest"
)

const (
	workoutAnswer = `{"schedule": ["Monday", "Wednesday"], "exercises": [{"day": "Monday", "routines": [{"name": "Deadlift", "sets": 4, "reps": "6", "rest": "90s"}]}]}`
	dietAnswer    = "```json\n{\"dailyCalories\": \"2400\", \"meals\": [{\"name\": \"Lunch\", \"foods\": [\"Rice\", \"Chicken\"]}]}\n```"
)

var intake = domain.ProgramAttributes{
	UserID:       "user_1",
	Age:          "29",
	Height:       "180cm",
	Weight:       "80kg",
	WorkoutDays:  "3",
	FitnessGoal:  "Muscle Gain",
	FitnessLevel: "intermediate",
}

func newProgram(model llm.Client, plans *fakePlanRepo) *programService {
	svc := NewProgramService(model, plans, newTestMetrics(), zap.NewNop()).(*programService)
	svc.now = func() time.Time { return time.Date(2025, time.March, 7, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestGenerateProgram(t *testing.T) {
	mock := &llmtest.MockClient{Responses: []string{workoutAnswer, dietAnswer}}
	plans := newFakePlanRepo()
	svc := newProgram(mock, plans)

	res, err := svc.GenerateProgram(context.Background(), intake)
	require.NoError(t, err)

	assert.Equal(t, "plan_1", res.PlanID)
	assert.Equal(t, domain.Routine{Name: "Deadlift", Sets: 4, Reps: 6}, res.WorkoutPlan.Exercises[0].Routines[0])
	assert.Equal(t, 2400, res.DietPlan.DailyCalories)

	require.Len(t, plans.Created(), 1)
	saved := plans.Created()[0]
	assert.Equal(t, "Muscle Gain Plan - 3/7/2025", saved.Name)
	assert.True(t, saved.IsActive)
	assert.Equal(t, "user_1", saved.UserID)

	// Exactly one call per sub-plan, both in JSON mode
	reqs := mock.Requests()
	require.Len(t, reqs, 2)
	assert.Contains(t, reqs[0].Prompt, "personalized workout plan")
	assert.Contains(t, reqs[1].Prompt, "personalized diet plan")
	assert.True(t, reqs[0].JSON)
	assert.True(t, reqs[1].JSON)
}

func TestGenerateProgram_UnwrapsNamedObject(t *testing.T) {
	wrapped := `{"workoutPlan": ` + workoutAnswer + `}`
	mock := &llmtest.MockClient{Responses: []string{wrapped, dietAnswer}}
	svc := newProgram(mock, newFakePlanRepo())

	res, err := svc.GenerateProgram(context.Background(), intake)
	require.NoError(t, err)
	assert.Equal(t, []string{"Monday", "Wednesday"}, res.WorkoutPlan.Schedule)
}

func TestGenerateProgram_Errors(t *testing.T) {
	tests := []struct {
		name    string
		model   llm.Client
		attrs   domain.ProgramAttributes
		saveErr error
		kind    error
		message string
		calls   int
	}{
		{
			name:    "missing model",
			attrs:   intake,
			kind:    ErrMisconfigured,
			message: "GOOGLE_API_KEY is not configured",
		},
		{
			name:    "missing user id",
			model:   &llmtest.MockClient{Responses: []string{workoutAnswer, dietAnswer}},
			attrs:   domain.ProgramAttributes{FitnessGoal: "Fat Loss"},
			kind:    ErrBadRequest,
			message: "user_id is required",
		},
		{
			name:    "workout call fails",
			model:   &llmtest.MockClient{Err: errors.New("deadline exceeded")},
			attrs:   intake,
			kind:    ErrUpstream,
			message: "Failed to generate workout plan",
			calls:   1,
		},
		{
			name:    "workout answer has no JSON",
			model:   &llmtest.MockClient{Responses: []string{"I cannot help with that.", dietAnswer}},
			attrs:   intake,
			kind:    ErrUpstream,
			message: "Failed to generate workout plan",
			calls:   1,
		},
		{
			name:    "diet answer empty",
			model:   &llmtest.MockClient{Responses: []string{workoutAnswer, ""}},
			attrs:   intake,
			kind:    ErrUpstream,
			message: "Failed to generate diet plan",
			calls:   2,
		},
		{
			name:    "save fails",
			model:   &llmtest.MockClient{Responses: []string{workoutAnswer, dietAnswer}},
			attrs:   intake,
			saveErr: errors.New("write conflict"),
			kind:    ErrPersistence,
			message: "Failed to save plan",
			calls:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plans := newFakePlanRepo()
			plans.err = tt.saveErr
			svc := newProgram(tt.model, plans)

			_, err := svc.GenerateProgram(context.Background(), tt.attrs)
			assert.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.message, PublicMessage(err, ""))
			assert.Empty(t, plans.Created())
			if mock, ok := tt.model.(*llmtest.MockClient); ok {
				assert.Equal(t, tt.calls, mock.Calls())
			}
		})
	}
}

func TestProgramPlanName(t *testing.T) {
	day := time.Date(2024, time.December, 25, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Fat Loss Plan - 12/25/2024", programPlanName("Fat Loss", day))
	assert.Equal(t, "Fitness Plan - 12/25/2024", programPlanName("  ", day))
}
