package grievance

import "strings"

// categoryKeywords are evaluated in priority order; the first set with any
// keyword contained in the text wins. There is no scoring or combination.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryInfrastructure, []string{"road", "street", "bridge", "pothole", "construction"}},
	{CategoryWater, []string{"water", "pipe", "leak", "drainage", "supply"}},
	{CategoryElectricity, []string{"electricity", "power", "outage", "transformer"}},
	{CategoryHealthcare, []string{"hospital", "doctor", "health", "medical"}},
	{CategoryEducation, []string{"school", "teacher", "education"}},
	{CategoryEnvironment, []string{"garbage", "waste", "pollution", "noise"}},
}

// Classify maps a submission's free text to a Category by ordered keyword-set
// matching over the lower-cased "title description" concatenation. Matching
// is substring containment. Returns CategoryGeneral when nothing matches,
// including for empty input.
func Classify(title, description string) Category {
	text := strings.ToLower(title + " " + description)
	for _, set := range categoryKeywords {
		if containsAny(text, set.keywords) {
			return set.category
		}
	}
	return CategoryGeneral
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
