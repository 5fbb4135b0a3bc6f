package coerce

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coresync/coach/internal/domain"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestWorkoutPlan(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  domain.WorkoutPlan
	}{
		{
			name:  "well formed",
			input: `{"schedule":["Monday","Thursday"],"exercises":[{"day":"Monday","routines":[{"name":"Squat","sets":4,"reps":6}]}]}`,
			want: domain.WorkoutPlan{
				Schedule: []string{"Monday", "Thursday"},
				Exercises: []domain.ExerciseDay{
					{Day: "Monday", Routines: []domain.Routine{{Name: "Squat", Sets: 4, Reps: 6}}},
				},
			},
		},
		{
			name:  "string sets that are not integers fall back",
			input: `{"exercises":[{"day":"Monday","routines":[{"name":"Row","sets":"12 reps","reps":8}]}]}`,
			want: domain.WorkoutPlan{
				Schedule: []string{},
				Exercises: []domain.ExerciseDay{
					{Day: "Monday", Routines: []domain.Routine{{Name: "Row", Sets: 1, Reps: 8}}},
				},
			},
		},
		{
			name:  "integer strings are parsed",
			input: `{"exercises":[{"day":"Friday","routines":[{"name":"Press","sets":" 3 ","reps":"12"}]}]}`,
			want: domain.WorkoutPlan{
				Schedule: []string{},
				Exercises: []domain.ExerciseDay{
					{Day: "Friday", Routines: []domain.Routine{{Name: "Press", Sets: 3, Reps: 12}}},
				},
			},
		},
		{
			name:  "missing routines and day",
			input: `{"schedule":"Mon-Fri","exercises":[{"notes":"rest"}]}`,
			want: domain.WorkoutPlan{
				Schedule:  []string{},
				Exercises: []domain.ExerciseDay{{Day: "Unknown", Routines: []domain.Routine{}}},
			},
		},
		{
			name:  "null exercises",
			input: `{"schedule":["Monday",5,""],"exercises":null}`,
			want: domain.WorkoutPlan{
				Schedule:  []string{"Monday", "Day", "Day"},
				Exercises: []domain.ExerciseDay{},
			},
		},
		{
			name:  "routine garbage",
			input: `{"exercises":[{"day":"Tuesday","routines":["pushups",{"sets":0,"reps":-4,"weight":"heavy"},{"name":"Lunge","sets":2.9,"reps":true}]}]}`,
			want: domain.WorkoutPlan{
				Schedule: []string{},
				Exercises: []domain.ExerciseDay{{Day: "Tuesday", Routines: []domain.Routine{
					{Name: "Exercise", Sets: 1, Reps: 10},
					{Name: "Exercise", Sets: 1, Reps: 10},
					{Name: "Lunge", Sets: 2, Reps: 10},
				}}},
			},
		},
		{
			name:  "not an object",
			input: `"three days a week"`,
			want:  domain.WorkoutPlan{Schedule: []string{}, Exercises: []domain.ExerciseDay{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WorkoutPlan(decode(t, tt.input))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDietPlan(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  domain.DietPlan
	}{
		{
			name:  "well formed",
			input: `{"dailyCalories":2400,"meals":[{"name":"Breakfast","foods":["Oats","Eggs"]}]}`,
			want: domain.DietPlan{DailyCalories: 2400, Meals: []domain.Meal{
				{Name: "Breakfast", Foods: []string{"Oats", "Eggs"}},
			}},
		},
		{
			name:  "calories as text with unit",
			input: `{"dailyCalories":"2000 kcal","meals":[]}`,
			want:  domain.DietPlan{DailyCalories: 0, Meals: []domain.Meal{}},
		},
		{
			name:  "calories as integer string",
			input: `{"dailyCalories":"1800"}`,
			want:  domain.DietPlan{DailyCalories: 1800, Meals: []domain.Meal{}},
		},
		{
			name:  "fractional and negative calories",
			input: `{"dailyCalories":-5.5,"meals":{"name":"Lunch"}}`,
			want:  domain.DietPlan{DailyCalories: 0, Meals: []domain.Meal{}},
		},
		{
			name:  "meal garbage",
			input: `{"dailyCalories":2150.7,"meals":[42,{"foods":"rice"},{"name":"Dinner","foods":["Salmon",7,"  ",null,"Rice "]}]}`,
			want: domain.DietPlan{DailyCalories: 2150, Meals: []domain.Meal{
				{Name: "Meal", Foods: []string{}},
				{Name: "Meal", Foods: []string{}},
				{Name: "Dinner", Foods: []string{"Salmon", "Rice"}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DietPlan(decode(t, tt.input))
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got.DailyCalories, 0)
			assert.NotNil(t, got.Meals)
		})
	}
}

func TestPlanFromNull(t *testing.T) {
	_, ok := WorkoutPlanFrom(nil)
	assert.False(t, ok)
	_, ok = DietPlanFrom(nil)
	assert.False(t, ok)

	w, ok := WorkoutPlanFrom(map[string]any{})
	assert.True(t, ok)
	assert.Empty(t, w.Exercises)

	d, ok := DietPlanFrom([]any{})
	assert.True(t, ok)
	assert.Equal(t, 0, d.DailyCalories)
}

func TestInt(t *testing.T) {
	assert.Equal(t, 5, Int(5.0, 1))
	assert.Equal(t, 7, Int(json.Number("7"), 1))
	assert.Equal(t, 7, Int(json.Number("7.9"), 1))
	assert.Equal(t, 1, Int("12 reps", 1))
	assert.Equal(t, 1, Int(nil, 1))
	assert.Equal(t, 1, Int(1e12, 1))
	assert.Equal(t, -3, Int("-3", 1))
}

func TestBoolAndText(t *testing.T) {
	assert.True(t, Bool(true))
	assert.True(t, Bool("TRUE"))
	assert.False(t, Bool("yes"))
	assert.False(t, Bool(nil))

	assert.Equal(t, "28", Text(28.0))
	assert.Equal(t, "5.5", Text(5.5))
	assert.Equal(t, "bad knee", Text(" bad knee "))
	assert.Equal(t, "", Text(map[string]any{"a": 1}))
}
