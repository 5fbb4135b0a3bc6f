package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"coresync/coach/internal/coerce"
	"coresync/coach/internal/domain"
	"coresync/coach/internal/llm"
	"coresync/coach/internal/metrics"
	"coresync/coach/internal/prompt"
	"coresync/coach/internal/repository"
)

// ProgramResult is the outcome of a successful program generation.
type ProgramResult struct {
	PlanID      string             `json:"planId"`
	WorkoutPlan domain.WorkoutPlan `json:"workoutPlan"`
	DietPlan    domain.DietPlan    `json:"dietPlan"`
}

// ProgramService turns intake answers from the voice assistant into a saved plan.
type ProgramService interface {
	GenerateProgram(ctx context.Context, attrs domain.ProgramAttributes) (*ProgramResult, error)
}

type programService struct {
	model   llm.Client // nil when no API key is configured
	plans   repository.PlanRepository
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewProgramService creates a new instance of programService.
func NewProgramService(model llm.Client, plans repository.PlanRepository, m *metrics.Metrics, logger *zap.Logger) ProgramService {
	return &programService{
		model:   model,
		plans:   plans,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// GenerateProgram makes one model call per sub-plan and stores the result as the user's active plan.
func (s *programService) GenerateProgram(ctx context.Context, attrs domain.ProgramAttributes) (*ProgramResult, error) {
	// 1. Validate configuration and input
	if s.model == nil {
		return nil, newError(ErrMisconfigured, "GOOGLE_API_KEY is not configured", nil)
	}
	attrs.UserID = strings.TrimSpace(attrs.UserID)
	if attrs.UserID == "" {
		return nil, newError(ErrBadRequest, "user_id is required", nil)
	}

	// 2. Workout half
	rawWorkout, err := s.subPlan(ctx, "workout", prompt.WorkoutPrompt(attrs), "workoutPlan")
	if err != nil {
		return nil, err
	}
	workout, ok := coerce.WorkoutPlanFrom(rawWorkout)
	if !ok {
		return nil, newError(ErrUpstream, "Failed to generate workout plan", nil)
	}

	// 3. Diet half
	rawDiet, err := s.subPlan(ctx, "diet", prompt.DietPrompt(attrs), "dietPlan")
	if err != nil {
		return nil, err
	}
	diet, ok := coerce.DietPlanFrom(rawDiet)
	if !ok {
		return nil, newError(ErrUpstream, "Failed to generate diet plan", nil)
	}

	// 4. Save as the active plan
	plan := &domain.Plan{
		UserID:      attrs.UserID,
		Name:        programPlanName(attrs.FitnessGoal, s.now()),
		IsActive:    true,
		WorkoutPlan: workout,
		DietPlan:    diet,
	}
	planID, err := s.plans.CreatePlan(ctx, plan)
	if err != nil {
		s.metrics.PlanSaveFailures.WithLabelValues(metrics.SourceProgram).Inc()
		s.logger.Error("failed to save generated program", zap.String("user_id", attrs.UserID), zap.Error(err))
		return nil, newError(ErrPersistence, "Failed to save plan", err)
	}
	s.metrics.PlansSaved.WithLabelValues(metrics.SourceProgram).Inc()

	return &ProgramResult{PlanID: planID, WorkoutPlan: workout, DietPlan: diet}, nil
}

// subPlan asks the model for one sub-plan and returns the decoded value, or nil when the
// answer holds no JSON object. A reply wrapped as {wrapKey: {...}} is unwrapped.
func (s *programService) subPlan(ctx context.Context, operation, text, wrapKey string) (any, error) {
	start := time.Now()
	raw, err := s.model.Generate(ctx, llm.Request{Prompt: text, JSON: true})
	s.metrics.ObserveModelCall(operation, start)
	if err != nil {
		if !errors.Is(err, llm.ErrEmptyResponse) {
			s.logger.Error("program model call failed", zap.String("operation", operation), zap.Error(err))
		}
		return nil, newError(ErrUpstream, fmt.Sprintf("Failed to generate %s plan", operation), err)
	}

	var decoded map[string]any
	strategy := llm.DecodeLayered(raw, &decoded)
	s.metrics.ParseStrategies.WithLabelValues(operation, strategy.String()).Inc()
	if strategy == llm.StrategyNone {
		s.logger.Warn("model answer held no JSON object", zap.String("operation", operation))
		return nil, nil
	}

	if inner, ok := decoded[wrapKey].(map[string]any); ok && len(decoded) == 1 {
		return inner, nil
	}
	return decoded, nil
}

func programPlanName(goal string, now time.Time) string {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		goal = "Fitness"
	}
	return fmt.Sprintf("%s Plan - %s", goal, now.Format("1/2/2006"))
}
