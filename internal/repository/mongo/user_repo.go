package mongo

import (
	"context"
	"coresync/coach/internal/domain"
	"coresync/coach/internal/repository" // Import the repository interfaces package
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const userCollectionName = "users"

// userDocument is the stored shape of a domain.User.
type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ClerkID   string             `bson:"clerkId"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Image     string             `bson:"image,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:        d.ID.Hex(),
		ClerkID:   d.ClerkID,
		Name:      d.Name,
		Email:     d.Email,
		Image:     d.Image,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// mongoUserRepository implements the repository.UserRepository interface using MongoDB.
type mongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new instance of mongoUserRepository.
// It expects a connected *mongo.Database instance.
func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{
		collection: db.Collection(userCollectionName),
	}
}

// SyncUser upserts the user keyed by clerkId.
func (r *mongoUserRepository) SyncUser(ctx context.Context, user domain.UserSync) error {
	if user.ClerkID == "" {
		return repository.ErrInvalid
	}

	now := time.Now().UTC()
	set := bson.M{
		"name":      user.Name,
		"email":     user.Email,
		"updatedAt": now,
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"createdAt": now},
	}
	// An absent image clears a previously stored one
	if user.Image != "" {
		set["image"] = user.Image
	} else {
		update["$unset"] = bson.M{"image": ""}
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"clerkId": user.ClerkID}, update, options.Update().SetUpsert(true))
	return err
}

// GetByClerkID retrieves a user by their identity-provider id.
func (r *mongoUserRepository) GetByClerkID(ctx context.Context, clerkID string) (*domain.User, error) {
	var doc userDocument
	err := r.collection.FindOne(ctx, bson.M{"clerkId": clerkID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// EnsureUserIndexes creates necessary indexes for the users collection.
// Call this once during application startup.
func EnsureUserIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clerkId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
