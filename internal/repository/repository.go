package repository

import (
	"coresync/coach/internal/domain" // Import our defined domain models
	"context"
	"time"
)

// Error constants for repository layer
var (
	ErrNotFound = RepositoryError("not found")
	ErrInvalid  = RepositoryError("invalid input")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository mirrors identity-provider users into the store.
type UserRepository interface {
	// SyncUser inserts or updates the user keyed by ClerkID.
	SyncUser(ctx context.Context, user domain.UserSync) error
	GetByClerkID(ctx context.Context, clerkID string) (*domain.User, error)
}

// PlanRepository stores generated plans.
type PlanRepository interface {
	// CreatePlan stores plan and returns its id. Creating an active plan makes it the
	// user's only active plan.
	CreatePlan(ctx context.Context, plan *domain.Plan) (string, error)
	// GetActivePlan returns the user's active plan, or ErrNotFound.
	GetActivePlan(ctx context.Context, userID string) (*domain.Plan, error)
}

// DeliveryStore remembers processed webhook deliveries.
type DeliveryStore interface {
	// MarkDelivered records id and reports whether this is its first delivery within ttl.
	MarkDelivered(ctx context.Context, id string, ttl time.Duration) (first bool, err error)
	// Release forgets id so a redelivery is processed again.
	Release(ctx context.Context, id string) error
}
