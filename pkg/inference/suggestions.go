package inference

// Canned suggestion lists, keyed by comparison category. Pure lookup, no
// computation.
var suggestionLists = map[string][]string{
	CategoryAboveAverage: {
		"Consider regular maintenance to improve fuel efficiency.",
		"Carpool whenever possible to reduce per-person emissions.",
		"Adopt smooth driving habits to reduce fuel use.",
		"Explore hybrid or electric vehicles for the future.",
	},
	CategoryAtOrBelow: {
		"Great job! Your car is performing better than the fleet average.",
		"Keep maintaining your vehicle regularly.",
		"Try using biofuels or renewable energy options when possible.",
		"Also use safety measures to increase rider safety.",
	},
}

// SuggestionsFor returns the fixed tip list for a comparison category.
// Unknown categories yield an empty list.
func SuggestionsFor(category string) []string {
	tips, ok := suggestionLists[category]
	if !ok {
		return []string{}
	}
	out := make([]string, len(tips))
	copy(out, tips)
	return out
}
