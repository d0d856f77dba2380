package grievance

import "testing"

func TestRoute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		category Category
		location string
		want     string
	}{
		{"infrastructure", CategoryInfrastructure, "MG Road, Pune", "Public Works Department"},
		{"water", CategoryWater, "", "Water Supply Department"},
		{"electricity", CategoryElectricity, "Sector 12", "Electricity Board"},
		{"healthcare", CategoryHealthcare, "", "Health Department"},
		{"education", CategoryEducation, "", "Education Department"},
		{"environment", CategoryEnvironment, "", "Environment Department"},
		{"general", CategoryGeneral, "", "General Administration"},
		{"rural infrastructure override", CategoryInfrastructure, "Rural ward 4", "Rural Development Department"},
		{"rural override is case insensitive", CategoryInfrastructure, "RURAL belt", "Rural Development Department"},
		{"rural location without infrastructure", CategoryWater, "rural ward 4", "Water Supply Department"},
		{"unknown category falls back", Category("plumbing"), "", "General Administration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Route(tt.category, tt.location)
			if got != tt.want {
				t.Errorf("Route(%q, %q) = %q, want %q", tt.category, tt.location, got, tt.want)
			}
		})
	}
}
