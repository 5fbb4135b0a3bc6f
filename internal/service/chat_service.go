package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"coresync/coach/internal/coerce"
	"coresync/coach/internal/contentfilter"
	"coresync/coach/internal/domain"
	"coresync/coach/internal/llm"
	"coresync/coach/internal/metrics"
	"coresync/coach/internal/notify"
	"coresync/coach/internal/prompt"
	"coresync/coach/internal/repository"
	"coresync/coach/internal/storage"
)

const defaultPlanName = "CoreSync Plan"

// ChatRequest is one turn of the intake chat.
type ChatRequest struct {
	Messages      []domain.Message
	UserID        string // Supplied by the caller, may be empty
	SessionUserID string // From a verified session, takes precedence over UserID
	UserName      string
}

// ChatResponse is returned to the chat client. PlanID is nil unless a plan was saved.
type ChatResponse struct {
	Reply     string  `json:"reply"`
	PlanSaved bool    `json:"planSaved"`
	PlanID    *string `json:"planId"`
}

// ChatService runs the intake conversation and saves a plan once the model has one.
type ChatService interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ChatOption configures optional collaborators of the chat service.
type ChatOption func(*chatService)

// WithPlanArchive exports every saved plan to object storage.
func WithPlanArchive(archive storage.PlanArchive, urlExpiry time.Duration) ChatOption {
	return func(s *chatService) {
		s.archive = archive
		s.urlExpiry = urlExpiry
	}
}

// WithNotifier emails the user once a plan is saved. users resolves the recipient address.
func WithNotifier(users repository.UserRepository, notifier notify.Notifier) ChatOption {
	return func(s *chatService) {
		s.users = users
		s.notifier = notifier
	}
}

type chatService struct {
	model   llm.Client // nil when no API key is configured
	plans   repository.PlanRepository
	filter  *contentfilter.Filter
	metrics *metrics.Metrics
	logger  *zap.Logger

	archive   storage.PlanArchive
	urlExpiry time.Duration
	users     repository.UserRepository
	notifier  notify.Notifier
}

// NewChatService creates a new instance of chatService.
func NewChatService(
	model llm.Client,
	plans repository.PlanRepository,
	filter *contentfilter.Filter,
	m *metrics.Metrics,
	logger *zap.Logger,
	opts ...ChatOption,
) ChatService {
	s := &chatService{
		model:   model,
		plans:   plans,
		filter:  filter,
		metrics: m,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// chatContract is the JSON object the model is asked to answer with. Values stay loosely
// typed until coerced.
type chatContract struct {
	Reply       any `json:"reply"`
	PlanReady   any `json:"planReady"`
	PlanName    any `json:"planName"`
	WorkoutPlan any `json:"workoutPlan"`
	DietPlan    any `json:"dietPlan"`
}

// Chat answers one turn of the conversation.
func (s *chatService) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	// 1. Configuration and input checks happen before any external call
	if s.model == nil {
		s.metrics.ChatRequests.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, newError(ErrMisconfigured, "GOOGLE_API_KEY is not configured", nil)
	}
	if len(req.Messages) == 0 {
		s.metrics.ChatRequests.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, newError(ErrBadRequest, "messages must be a non-empty array", nil)
	}
	for _, m := range req.Messages {
		if !m.Role.Valid() {
			s.metrics.ChatRequests.WithLabelValues(metrics.OutcomeError).Inc()
			return nil, newError(ErrBadRequest, `message role must be "user" or "assistant"`, nil)
		}
	}

	// 2. Resolve who we are talking to
	userID := req.SessionUserID
	if userID == "" {
		userID = strings.TrimSpace(req.UserID)
	}

	// 3-4. One model call
	start := time.Now()
	raw, err := s.model.Generate(ctx, llm.Request{Prompt: prompt.ChatPrompt(req.Messages), JSON: true})
	s.metrics.ObserveModelCall("chat", start)
	if err != nil || strings.TrimSpace(raw) == "" {
		s.metrics.ChatRequests.WithLabelValues(metrics.OutcomeError).Inc()
		if err == nil || errors.Is(err, llm.ErrEmptyResponse) {
			return nil, newError(ErrUpstream, "Gemini returned an empty response", err)
		}
		s.logger.Error("chat model call failed", zap.Error(err))
		return nil, newError(ErrUpstream, "Failed to contact Gemini", err)
	}

	// 5. Layered parse; an unparseable answer is used as the reply itself
	var contract chatContract
	strategy := llm.DecodeLayered(raw, &contract)
	s.metrics.ParseStrategies.WithLabelValues("chat", strategy.String()).Inc()

	reply := strings.TrimSpace(raw)
	if strategy != llm.StrategyNone {
		reply = strings.TrimSpace(coerce.Text(contract.Reply))
	}

	// 6. Persist when the model reports a complete plan for a known user
	resp := &ChatResponse{}
	if strategy != llm.StrategyNone && coerce.Bool(contract.PlanReady) {
		workout, workoutOK := coerce.WorkoutPlanFrom(contract.WorkoutPlan)
		diet, dietOK := coerce.DietPlanFrom(contract.DietPlan)

		switch {
		case !workoutOK || !dietOK:
			s.logger.Warn("plan marked ready without both sub-plans",
				zap.Bool("workout", workoutOK), zap.Bool("diet", dietOK))
		case userID == "":
			s.logger.Info("plan ready for anonymous user, not saved")
		default:
			plan := &domain.Plan{
				UserID:      userID,
				Name:        chatPlanName(coerce.Text(contract.PlanName), req.UserName),
				IsActive:    true,
				WorkoutPlan: workout,
				DietPlan:    diet,
			}
			if planID, err := s.plans.CreatePlan(ctx, plan); err != nil {
				// Persistence failures downgrade to planSaved=false
				s.metrics.PlanSaveFailures.WithLabelValues(metrics.SourceChat).Inc()
				s.logger.Error("failed to save chat plan",
					zap.String("user_id", userID),
					zap.Error(errors.Join(ErrPersistence, err)))
			} else {
				s.metrics.PlansSaved.WithLabelValues(metrics.SourceChat).Inc()
				resp.PlanSaved = true
				resp.PlanID = &planID
				s.afterSave(ctx, plan, req.UserName)
			}
		}
	}

	// 7. Keep plan specifics out of the chat
	resp.Reply = s.filter.Apply(reply, resp.PlanSaved)

	outcome := metrics.OutcomeReply
	switch {
	case resp.PlanSaved:
		outcome = metrics.OutcomePlanSaved
	case resp.Reply != reply:
		outcome = metrics.OutcomeFiltered
	}
	s.metrics.ChatRequests.WithLabelValues(outcome).Inc()

	return resp, nil
}

// afterSave archives the plan and notifies the user. Failures are only logged.
func (s *chatService) afterSave(ctx context.Context, plan *domain.Plan, userName string) {
	var exportURL string
	if s.archive != nil {
		exportURL = s.exportPlan(ctx, plan)
	}

	if s.notifier == nil || s.users == nil {
		return
	}
	user, err := s.users.GetByClerkID(ctx, plan.UserID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("failed to look up plan owner", zap.String("user_id", plan.UserID), zap.Error(err))
		}
		return
	}

	name := user.Name
	if name == "" {
		name = userName
	}
	err = s.notifier.NotifyPlanReady(ctx, notify.PlanReady{
		To:        user.Email,
		Name:      name,
		PlanID:    plan.ID,
		PlanName:  plan.Name,
		ExportURL: exportURL,
	})
	if err != nil {
		s.logger.Warn("failed to send plan-ready notice", zap.String("plan_id", plan.ID), zap.Error(err))
	}
}

func (s *chatService) exportPlan(ctx context.Context, plan *domain.Plan) string {
	body, err := json.Marshal(plan)
	if err != nil {
		s.logger.Warn("failed to encode plan for export", zap.Error(err))
		return ""
	}

	key := storage.PlanKey(plan.UserID, plan.ID)
	if err := s.archive.PutObject(ctx, key, body, "application/json"); err != nil {
		s.logger.Warn("failed to export plan", zap.String("key", key), zap.Error(err))
		return ""
	}

	url, err := s.archive.GeneratePresignedDownloadURL(ctx, key, s.urlExpiry)
	if err != nil {
		s.logger.Warn("failed to presign plan export", zap.String("key", key), zap.Error(err))
		return ""
	}
	return url
}

func chatPlanName(modelName, userName string) string {
	if name := strings.TrimSpace(modelName); name != "" {
		return name
	}
	if name := strings.TrimSpace(userName); name != "" {
		return name + "'s " + defaultPlanName
	}
	return defaultPlanName
}
