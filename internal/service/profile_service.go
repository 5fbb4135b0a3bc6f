package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"coresync/coach/internal/domain"
	"coresync/coach/internal/repository"
	"coresync/coach/internal/storage"
)

const defaultVoiceName = "Friend"

// ErrNoActivePlan is returned when the user has not saved a plan yet.
var ErrNoActivePlan = errors.New("no active plan")

// ActivePlan is the profile view of the user's current plan.
type ActivePlan struct {
	*domain.Plan
	ExportURL string `json:"exportUrl,omitempty"`
}

// VoiceSession is what the client needs to start the voice assistant.
type VoiceSession struct {
	AssistantID    string            `json:"assistantId"`
	VariableValues map[string]string `json:"variableValues"`
}

// ProfileService serves the signed-in user's profile data.
type ProfileService interface {
	ActivePlan(ctx context.Context, userID string) (*ActivePlan, error)
	// VoiceSession resolves the assistant configuration. userID may be empty.
	VoiceSession(ctx context.Context, userID, fallbackName string) (*VoiceSession, error)
}

type profileService struct {
	users       repository.UserRepository
	plans       repository.PlanRepository
	archive     storage.PlanArchive // Optional
	urlExpiry   time.Duration
	assistantID string
	logger      *zap.Logger
}

// NewProfileService creates a new instance of profileService. archive may be nil.
func NewProfileService(
	users repository.UserRepository,
	plans repository.PlanRepository,
	archive storage.PlanArchive,
	urlExpiry time.Duration,
	assistantID string,
	logger *zap.Logger,
) ProfileService {
	return &profileService{
		users:       users,
		plans:       plans,
		archive:     archive,
		urlExpiry:   urlExpiry,
		assistantID: assistantID,
		logger:      logger,
	}
}

func (s *profileService) ActivePlan(ctx context.Context, userID string) (*ActivePlan, error) {
	if userID == "" {
		return nil, newError(ErrBadRequest, "user id is required", nil)
	}

	plan, err := s.plans.GetActivePlan(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActivePlan
		}
		return nil, newError(ErrPersistence, "Failed to load plan", err)
	}

	out := &ActivePlan{Plan: plan}
	if s.archive != nil {
		url, err := s.archive.GeneratePresignedDownloadURL(ctx, storage.PlanKey(plan.UserID, plan.ID), s.urlExpiry)
		if err != nil {
			s.logger.Warn("failed to presign plan export", zap.String("plan_id", plan.ID), zap.Error(err))
		} else {
			out.ExportURL = url
		}
	}
	return out, nil
}

func (s *profileService) VoiceSession(ctx context.Context, userID, fallbackName string) (*VoiceSession, error) {
	name := ""
	if userID != "" {
		user, err := s.users.GetByClerkID(ctx, userID)
		switch {
		case err == nil:
			name = strings.TrimSpace(user.Name)
		case !errors.Is(err, repository.ErrNotFound):
			s.logger.Warn("failed to look up voice user", zap.String("user_id", userID), zap.Error(err))
		}
	}
	if name == "" {
		name = strings.TrimSpace(fallbackName)
	}
	if name == "" {
		name = defaultVoiceName
	}

	return &VoiceSession{
		AssistantID:    s.assistantID,
		VariableValues: map[string]string{"full_name": name},
	}, nil
}
