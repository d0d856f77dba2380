package grievance

import (
	"math"
	"strings"
)

// BaseUrgency is the score for text with no urgency keywords at all.
const BaseUrgency = 0.3

// urgencyTiers are evaluated top-down; the first tier with any keyword match
// sets the score. Tiers do not accumulate.
var urgencyTiers = []struct {
	score    float64
	keywords []string
}{
	{0.9, []string{"emergency", "urgent", "critical", "immediate"}},
	{0.7, []string{"serious", "major", "important"}},
	{0.5, []string{"problem", "issue", "broken"}},
}

// ScoreUrgency maps a submission's free text to a severity score. The result
// is clamped to 1.0 even though no tier can exceed 0.9.
func ScoreUrgency(title, description string) float64 {
	text := strings.ToLower(title + " " + description)
	score := BaseUrgency
	for _, tier := range urgencyTiers {
		if containsAny(text, tier.keywords) {
			score = tier.score
			break
		}
	}
	return math.Min(score, 1.0)
}
