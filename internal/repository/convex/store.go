package convex

import (
	"context"
	"errors"
	"time"

	"coresync/coach/internal/domain"
	"coresync/coach/internal/repository"
)

const (
	fnSyncUser       = "users:syncUser"
	fnGetUserByClerk = "users:getUserByClerkId"
	fnCreatePlan     = "plans:createPlan"
	fnGetActivePlan  = "plans:getActivePlan"
)

// userRecord and planRecord are the documents returned by the deployment.
type userRecord struct {
	ID           string  `json:"_id"`
	CreationTime float64 `json:"_creationTime"` // Milliseconds since epoch
	ClerkID      string  `json:"clerkId"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Image        string  `json:"image,omitempty"`
}

type planRecord struct {
	ID           string             `json:"_id"`
	CreationTime float64            `json:"_creationTime"`
	UserID       string             `json:"userId"`
	Name         string             `json:"name"`
	IsActive     bool               `json:"isActive"`
	WorkoutPlan  domain.WorkoutPlan `json:"workoutPlan"`
	DietPlan     domain.DietPlan    `json:"dietPlan"`
}

type createPlanArgs struct {
	UserID      string             `json:"userId"`
	Name        string             `json:"name"`
	WorkoutPlan domain.WorkoutPlan `json:"workoutPlan"`
	DietPlan    domain.DietPlan    `json:"dietPlan"`
	IsActive    bool               `json:"isActive"`
}

func fromMillis(ms float64) time.Time {
	return time.UnixMilli(int64(ms)).UTC()
}

// Store implements the user and plan repositories on top of Client.
type Store struct {
	client *Client
}

var (
	_ repository.UserRepository = (*Store)(nil)
	_ repository.PlanRepository = (*Store)(nil)
)

// NewStore wraps client.
func NewStore(client *Client) *Store {
	return &Store{client: client}
}

func (s *Store) SyncUser(ctx context.Context, user domain.UserSync) error {
	if user.ClerkID == "" {
		return repository.ErrInvalid
	}
	return s.client.Mutation(ctx, fnSyncUser, user, nil)
}

func (s *Store) GetByClerkID(ctx context.Context, clerkID string) (*domain.User, error) {
	var rec *userRecord
	if err := s.client.Query(ctx, fnGetUserByClerk, map[string]string{"clerkId": clerkID}, &rec); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, repository.ErrNotFound
	}
	created := fromMillis(rec.CreationTime)
	return &domain.User{
		ID:        rec.ID,
		ClerkID:   rec.ClerkID,
		Name:      rec.Name,
		Email:     rec.Email,
		Image:     rec.Image,
		CreatedAt: created,
		UpdatedAt: created,
	}, nil
}

// CreatePlan stores plan through plans:createPlan. The deployment deactivates the
// user's previous plans itself.
func (s *Store) CreatePlan(ctx context.Context, plan *domain.Plan) (string, error) {
	if plan.UserID == "" || plan.Name == "" {
		return "", errors.New("plan requires userId and name")
	}
	args := createPlanArgs{
		UserID:      plan.UserID,
		Name:        plan.Name,
		WorkoutPlan: plan.WorkoutPlan,
		DietPlan:    plan.DietPlan,
		IsActive:    plan.IsActive,
	}

	var id string
	if err := s.client.Mutation(ctx, fnCreatePlan, args, &id); err != nil {
		return "", err
	}
	if id == "" {
		return "", errors.New("convex plans:createPlan returned no id")
	}

	now := time.Now().UTC()
	plan.ID = id
	plan.CreatedAt = now
	plan.UpdatedAt = now
	return id, nil
}

func (s *Store) GetActivePlan(ctx context.Context, userID string) (*domain.Plan, error) {
	var rec *planRecord
	if err := s.client.Query(ctx, fnGetActivePlan, map[string]string{"userId": userID}, &rec); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, repository.ErrNotFound
	}
	created := fromMillis(rec.CreationTime)
	return &domain.Plan{
		ID:          rec.ID,
		UserID:      rec.UserID,
		Name:        rec.Name,
		IsActive:    rec.IsActive,
		WorkoutPlan: rec.WorkoutPlan,
		DietPlan:    rec.DietPlan,
		CreatedAt:   created,
		UpdatedAt:   created,
	}, nil
}
