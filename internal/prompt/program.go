// Package prompt builds the instruction text sent to the language model.
// Every builder is a pure function: identical inputs produce identical text.
package prompt

import (
	"fmt"
	"strings"

	"coresync/coach/internal/domain"
)

// WorkoutPrompt returns the instruction for generating the workout half of a plan.
func WorkoutPrompt(a domain.ProgramAttributes) string {
	return fmt.Sprintf(`You are an experienced fitness coach creating a personalized workout plan based on:
Age: %s
Height: %s
Weight: %s
Injuries or limitations: %s
Available days for workout: %s
Fitness goal: %s
Fitness level: %s

As a professional coach:
- Consider muscle group splits to avoid overtraining the same muscles on consecutive days
- Design exercises that match the fitness level and account for any injuries
- Structure the workouts to specifically target the user's fitness goal

CRITICAL SCHEMA INSTRUCTIONS:
- Your output MUST contain ONLY the fields specified below, NO ADDITIONAL FIELDS
- "sets" and "reps" MUST ALWAYS be NUMBERS, never strings
- For cardio exercises, use "sets": 1 and "reps": 1
- Do NOT add extra fields like "type", "duration", "description", "notes" or "rest"
- ONLY use these exact field names: "schedule", "exercises", "day", "routines", "name", "sets", "reps"

Return a JSON object with this EXACT structure:
%s

DO NOT add any fields that are not in this example.
Your response must be a valid JSON object with no additional text.`,
		orUnspecified(a.Age),
		orUnspecified(a.Height),
		orUnspecified(a.Weight),
		orNone(a.Injuries),
		orUnspecified(a.WorkoutDays),
		orUnspecified(a.FitnessGoal),
		orUnspecified(a.FitnessLevel),
		workoutExample,
	)
}

// DietPrompt returns the instruction for generating the diet half of a plan.
func DietPrompt(a domain.ProgramAttributes) string {
	return fmt.Sprintf(`You are an experienced nutrition coach creating a personalized diet plan based on:
Age: %s
Height: %s
Weight: %s
Fitness goal: %s
Dietary restrictions: %s

As a professional nutrition coach:
- Calculate an appropriate daily calorie intake based on the person's stats and goals
- Create a balanced meal plan with proper macronutrient distribution
- Include a variety of nutrient-dense foods while respecting dietary restrictions
- Consider meal timing around workouts for optimal performance and recovery

CRITICAL SCHEMA INSTRUCTIONS:
- Your output MUST contain ONLY the fields specified below, NO ADDITIONAL FIELDS
- "dailyCalories" MUST be a NUMBER, never a string
- Do NOT add fields like "supplements", "macros", "notes" or ANYTHING else
- ONLY include the EXACT fields shown in the example below
- Each meal should include ONLY a "name" and a "foods" array

Return a JSON object with this EXACT structure and no other fields:
%s

DO NOT add any fields that are not in this example.
Your response must be a valid JSON object with no additional text.`,
		orUnspecified(a.Age),
		orUnspecified(a.Height),
		orUnspecified(a.Weight),
		orUnspecified(a.FitnessGoal),
		orNone(a.DietaryRestrictions),
		dietExample,
	)
}

const workoutExample = `{
  "schedule": ["Monday", "Wednesday", "Friday"],
  "exercises": [
    {
      "day": "Monday",
      "routines": [
        {
          "name": "Exercise Name",
          "sets": 3,
          "reps": 10
        }
      ]
    }
  ]
}`

const dietExample = `{
  "dailyCalories": 2000,
  "meals": [
    {
      "name": "Breakfast",
      "foods": ["Oatmeal with berries", "Greek yogurt", "Black coffee"]
    },
    {
      "name": "Lunch",
      "foods": ["Grilled chicken salad", "Whole grain bread", "Water"]
    }
  ]
}`

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "not specified"
	}
	return strings.TrimSpace(s)
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "none"
	}
	return strings.TrimSpace(s)
}
