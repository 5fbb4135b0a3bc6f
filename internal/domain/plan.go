// internal/domain/plan.go
package domain

import "time"

// Routine is a single exercise prescription within a training day.
type Routine struct {
	Name string `bson:"name" json:"name"`
	Sets int    `bson:"sets" json:"sets"` // Always >= 1 once coerced
	Reps int    `bson:"reps" json:"reps"` // Always >= 1 once coerced
}

// ExerciseDay groups the routines performed on one scheduled day.
type ExerciseDay struct {
	Day      string    `bson:"day" json:"day"`
	Routines []Routine `bson:"routines" json:"routines"`
}

// WorkoutPlan is the training half of a Plan.
type WorkoutPlan struct {
	Schedule  []string      `bson:"schedule" json:"schedule"` // e.g. ["Monday", "Wednesday", "Friday"]
	Exercises []ExerciseDay `bson:"exercises" json:"exercises"`
}

// Meal is a named meal and the foods it contains.
type Meal struct {
	Name  string   `bson:"name" json:"name"`
	Foods []string `bson:"foods" json:"foods"`
}

// DietPlan is the nutrition half of a Plan.
type DietPlan struct {
	DailyCalories int    `bson:"dailyCalories" json:"dailyCalories"`
	Meals         []Meal `bson:"meals" json:"meals"`
}

// Plan is a generated workout + diet program owned by a user.
// UserID is the identity-provider id (the same value as User.ClerkID).
type Plan struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	Name        string      `json:"name"`
	IsActive    bool        `json:"isActive"` // Only one active plan is shown on the profile
	WorkoutPlan WorkoutPlan `json:"workoutPlan"`
	DietPlan    DietPlan    `json:"dietPlan"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// ProgramAttributes are the intake answers collected by the voice assistant.
// Values arrive loosely typed, so every field is kept as text.
type ProgramAttributes struct {
	UserID              string
	Age                 string
	Height              string
	Weight              string
	Injuries            string
	WorkoutDays         string
	FitnessGoal         string
	FitnessLevel        string
	DietaryRestrictions string
}
