// Package coerce forces loosely-typed language-model JSON into the strict plan schema.
//
// Every function here is total: any decoded JSON value (as produced by encoding/json into
// an `any`) yields a value of the target type, with documented defaults substituted for
// anything missing or malformed. Unknown fields are dropped because the output is always
// built from scratch.
package coerce

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"coresync/coach/internal/domain"
)

// Defaults substituted for missing or unparseable values.
const (
	DefaultScheduleDay   = "Day"
	DefaultExerciseDay   = "Unknown"
	DefaultRoutineName   = "Exercise"
	DefaultMealName      = "Meal"
	DefaultSets          = 1
	DefaultReps          = 10
	DefaultDailyCalories = 0
)

// WorkoutPlanFrom coerces v into a WorkoutPlan. ok is false only when v is null or absent.
func WorkoutPlanFrom(v any) (plan domain.WorkoutPlan, ok bool) {
	if v == nil {
		return domain.WorkoutPlan{}, false
	}
	return WorkoutPlan(v), true
}

// DietPlanFrom coerces v into a DietPlan. ok is false only when v is null or absent.
func DietPlanFrom(v any) (plan domain.DietPlan, ok bool) {
	if v == nil {
		return domain.DietPlan{}, false
	}
	return DietPlan(v), true
}

// WorkoutPlan coerces any value into a WorkoutPlan.
func WorkoutPlan(v any) domain.WorkoutPlan {
	obj := object(v)

	rawSchedule := array(obj["schedule"])
	schedule := make([]string, 0, len(rawSchedule))
	for _, d := range rawSchedule {
		schedule = append(schedule, stringOr(d, DefaultScheduleDay))
	}

	rawExercises := array(obj["exercises"])
	exercises := make([]domain.ExerciseDay, 0, len(rawExercises))
	for _, e := range rawExercises {
		exercises = append(exercises, exerciseDay(e))
	}

	return domain.WorkoutPlan{Schedule: schedule, Exercises: exercises}
}

// DietPlan coerces any value into a DietPlan.
func DietPlan(v any) domain.DietPlan {
	obj := object(v)

	calories := Int(obj["dailyCalories"], DefaultDailyCalories)
	if calories < 0 {
		calories = DefaultDailyCalories
	}

	rawMeals := array(obj["meals"])
	meals := make([]domain.Meal, 0, len(rawMeals))
	for _, m := range rawMeals {
		meals = append(meals, meal(m))
	}

	return domain.DietPlan{DailyCalories: calories, Meals: meals}
}

func exerciseDay(v any) domain.ExerciseDay {
	obj := object(v)
	rawRoutines := array(obj["routines"])
	routines := make([]domain.Routine, 0, len(rawRoutines))
	for _, r := range rawRoutines {
		routines = append(routines, routine(r))
	}
	return domain.ExerciseDay{
		Day:      stringOr(obj["day"], DefaultExerciseDay),
		Routines: routines,
	}
}

func routine(v any) domain.Routine {
	obj := object(v)
	return domain.Routine{
		Name: stringOr(obj["name"], DefaultRoutineName),
		Sets: positive(Int(obj["sets"], DefaultSets), DefaultSets),
		Reps: positive(Int(obj["reps"], DefaultReps), DefaultReps),
	}
}

func meal(v any) domain.Meal {
	obj := object(v)
	rawFoods := array(obj["foods"])
	foods := make([]string, 0, len(rawFoods))
	for _, f := range rawFoods {
		if s, ok := f.(string); ok && strings.TrimSpace(s) != "" {
			foods = append(foods, strings.TrimSpace(s))
		}
	}
	return domain.Meal{
		Name:  stringOr(obj["name"], DefaultMealName),
		Foods: foods,
	}
}

// Int converts a JSON number or an integer string into an int.
// Fractional numbers are truncated; anything else yields def.
// "12 reps" is not an integer string and yields def.
func Int(v any, def int) int {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n > math.MaxInt32 || n < math.MinInt32 {
			return def
		}
		return int(n)
	case int:
		return n
	case int64:
		if n > math.MaxInt32 || n < math.MinInt32 {
			return def
		}
		return int(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return Int(i, def)
		}
		if f, err := n.Float64(); err == nil {
			return Int(f, def)
		}
		return def
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return def
		}
		return Int(int64(i), def)
	default:
		return def
	}
}

// Bool reports whether v is JSON true or the string "true" (any case).
func Bool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(strings.TrimSpace(b), "true")
	default:
		return false
	}
}

// Text renders a scalar JSON value as text. Objects, arrays and null become "".
func Text(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func positive(n, def int) int {
	if n < 1 {
		return def
	}
	return n
}

func stringOr(v any, def string) string {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return def
	}
	return strings.TrimSpace(s)
}

func object(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func array(v any) []any {
	if a, ok := v.([]any); ok {
		return a
	}
	return nil
}
