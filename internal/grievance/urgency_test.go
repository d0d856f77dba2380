package grievance

import "testing"

func TestScoreUrgency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		title       string
		description string
		want        float64
	}{
		{
			name:        "no keywords yields base score",
			title:       "Streetlight flickering",
			description: "It has been like this for a week",
			want:        0.3,
		},
		{
			name:        "top tier emergency",
			title:       "Emergency at the pump house",
			description: "",
			want:        0.9,
		},
		{
			name:        "top tier wins over lower tiers",
			title:       "Urgent: minor problem with the gate",
			description: "",
			want:        0.9,
		},
		{
			name:        "middle tier",
			title:       "Serious damage to the wall",
			description: "",
			want:        0.7,
		},
		{
			name:        "low tier",
			title:       "Broken bench in the park",
			description: "",
			want:        0.5,
		},
		{
			name:        "keyword in description",
			title:       "Park bench",
			description: "it is broken and dangerous",
			want:        0.5,
		},
		{
			name:        "case insensitive",
			title:       "CRITICAL failure",
			description: "",
			want:        0.9,
		},
		{
			name:        "empty input",
			title:       "",
			description: "",
			want:        0.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ScoreUrgency(tt.title, tt.description)
			if got != tt.want {
				t.Errorf("ScoreUrgency(%q, %q) = %v, want %v", tt.title, tt.description, got, tt.want)
			}
		})
	}
}
