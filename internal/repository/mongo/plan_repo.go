// internal/repository/mongo/plan_repo.go
package mongo

import (
	"context"
	"coresync/coach/internal/domain"
	"coresync/coach/internal/repository"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const planCollectionName = "plans"

// planDocument is the stored shape of a domain.Plan.
type planDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"userId"` // Identity-provider id
	Name        string             `bson:"name"`
	IsActive    bool               `bson:"isActive"`
	WorkoutPlan domain.WorkoutPlan `bson:"workoutPlan"`
	DietPlan    domain.DietPlan    `bson:"dietPlan"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *planDocument) toDomain() *domain.Plan {
	return &domain.Plan{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		Name:        d.Name,
		IsActive:    d.IsActive,
		WorkoutPlan: d.WorkoutPlan,
		DietPlan:    d.DietPlan,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewMongoPlanRepository creates a new Plan repository.
func NewMongoPlanRepository(db *mongo.Database, logger *zap.Logger) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
		logger:     logger,
	}
}

// CreatePlan inserts a new plan. An active plan deactivates the user's other active plans.
// Once the insert succeeds the plan id is returned: a failed deactivation is only logged,
// since GetActivePlan already prefers the newest active plan.
func (r *mongoPlanRepository) CreatePlan(ctx context.Context, plan *domain.Plan) (string, error) {
	if plan.UserID == "" || plan.Name == "" {
		return "", errors.New("plan requires userId and name")
	}

	now := time.Now().UTC()
	doc := planDocument{
		ID:          primitive.NewObjectID(),
		UserID:      plan.UserID,
		Name:        plan.Name,
		IsActive:    plan.IsActive,
		WorkoutPlan: plan.WorkoutPlan,
		DietPlan:    plan.DietPlan,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return "", err
	}

	if doc.IsActive {
		if err := r.deactivateOtherPlans(ctx, doc.UserID, doc.ID); err != nil {
			r.logger.Warn("failed to deactivate previous plans",
				zap.String("user_id", doc.UserID),
				zap.String("plan_id", doc.ID.Hex()),
				zap.Error(err),
			)
		}
	}

	plan.ID = doc.ID.Hex()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	return plan.ID, nil
}

// GetActivePlan returns the newest active plan of a user.
func (r *mongoPlanRepository) GetActivePlan(ctx context.Context, userID string) (*domain.Plan, error) {
	var doc planDocument
	filter := bson.M{"userId": userID, "isActive": true}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	err := r.collection.FindOne(ctx, filter, findOptions).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *mongoPlanRepository) deactivateOtherPlans(ctx context.Context, userID string, excludePlanID primitive.ObjectID) error {
	filter := bson.M{
		"userId":   userID,
		"isActive": true,
		"_id":      bson.M{"$ne": excludePlanID}, // Don't deactivate the plan we just created
	}
	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now().UTC()}}
	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

// EnsurePlanIndexes creates necessary indexes. Call during startup.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Index to quickly find the active plan for a user
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "isActive", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
