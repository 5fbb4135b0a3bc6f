// Package contentfilter keeps plan specifics out of intake-chat replies.
package contentfilter

import (
	"regexp"
)

// Canned replies used when a leak is detected.
const (
	SavedMessage   = "Thanks! I have everything I need. Your full workout and diet plan is saved on your profile page."
	PendingMessage = "Got it! I only collect your details here. Once intake is complete, your full workout and diet plan will appear on your profile page."
)

// Rule is a named leak predicate.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// DefaultRules flag set/rep counts, calorie counts and meals listed with quantities.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "sets-reps", Pattern: regexp.MustCompile(`(?i)\b\d+\s*(?:sets?|reps?|repetitions?)\b`)},
		{Name: "set-by-rep", Pattern: regexp.MustCompile(`(?i)\b\d+\s*[x×]\s*\d+\b`)},
		{Name: "calories", Pattern: regexp.MustCompile(`(?i)\b\d{3,5}\s*(?:k?cals?|kcal|calories)\b`)},
		{Name: "meal-numbers", Pattern: mealQuantity},
	}
}

// mealQuantity matches a meal listed with a number ("Breakfast: 3 eggs") or a meal followed,
// within the same clause, by a quantity with a unit ("snack on 2 apples"). Questions such as
// "lunch, around 12 or 1?" carry no unit and are left alone.
var mealQuantity = regexp.MustCompile(`(?i)\b(?:breakfast|lunch|dinner|snacks?)\b(?:\s*[:\-–]\s*\d|[^.?!,;\n]{0,40}?\b\d+(?:\.\d+)?\s*` + quantityUnits + `\b)`)

const quantityUnits = `(?:g|grams?|kg|oz|ounces?|lbs?|ml|cups?|tbsp|tsp|tablespoons?|teaspoons?|slices?|servings?|scoops?|pieces?|handfuls?|portions?|eggs?|apples?|bananas?)`

// Filter is a set of rules applied to reply text.
type Filter struct {
	rules []Rule
}

// New creates a Filter. With no rules, DefaultRules are used.
func New(rules ...Rule) *Filter {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Filter{rules: rules}
}

// Matches returns the names of the rules that match text.
func (f *Filter) Matches(text string) []string {
	var names []string
	for _, r := range f.rules {
		if r.Pattern.MatchString(text) {
			names = append(names, r.Name)
		}
	}
	return names
}

// Leaks reports whether any rule matches text.
func (f *Filter) Leaks(text string) bool {
	for _, r := range f.rules {
		if r.Pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// Apply returns reply unchanged, or a canned message chosen by planSaved when reply leaks
// plan details. An empty reply is replaced the same way.
func (f *Filter) Apply(reply string, planSaved bool) string {
	if reply != "" && !f.Leaks(reply) {
		return reply
	}
	if planSaved {
		return SavedMessage
	}
	return PendingMessage
}
