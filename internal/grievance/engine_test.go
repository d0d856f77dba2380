package grievance

import (
	"context"
	"math"
	"testing"
)

// mockEnricher returns a canned result and records calls.
type mockEnricher struct {
	result *EnrichmentResult
	size   int
	calls  int
}

func (m *mockEnricher) Enrich(_ context.Context, _, _ string) *EnrichmentResult {
	m.calls++
	return m.result
}

func (m *mockEnricher) CorpusSize() int { return m.size }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEngine_Triage_EnrichmentUnavailable(t *testing.T) {
	t.Parallel()

	me := &mockEnricher{result: nil}
	e := NewEngine(me, nil, EngineHooks{})

	v := e.Triage(context.Background(), &Submission{
		Title:       "Huge pothole on main road",
		Description: "Serious damage to vehicles",
		Location:    "MG Road",
	})

	if v.Category != CategoryInfrastructure {
		t.Errorf("Category = %q, want %q", v.Category, CategoryInfrastructure)
	}
	if !almostEqual(v.UrgencyScore, 0.7) {
		t.Errorf("UrgencyScore = %v, want 0.7", v.UrgencyScore)
	}
	if v.Department != "Public Works Department" {
		t.Errorf("Department = %q, want Public Works Department", v.Department)
	}
	if v.Enrichment != nil {
		t.Errorf("Enrichment = %+v, want nil", v.Enrichment)
	}
	if me.calls != 1 {
		t.Errorf("enricher calls = %d, want 1", me.calls)
	}
}

func TestEngine_Triage_DegradedUsesBaseOutputs(t *testing.T) {
	t.Parallel()

	me := &mockEnricher{result: &EnrichmentResult{
		Error: "provider timeout",
		Entities: Entities{
			Organizations: []string{"City Hospital"},
		},
	}}
	e := NewEngine(me, nil, EngineHooks{})

	v := e.Triage(context.Background(), &Submission{
		Title:       "Water leak near the park",
		Description: "",
	})

	// Degraded results never feed refinement, even when entities are present.
	if v.Category != CategoryWater {
		t.Errorf("Category = %q, want %q", v.Category, CategoryWater)
	}
	if !almostEqual(v.UrgencyScore, 0.3) {
		t.Errorf("UrgencyScore = %v, want 0.3", v.UrgencyScore)
	}
	if v.Enrichment == nil || v.Enrichment.Error != "provider timeout" {
		t.Errorf("Enrichment = %+v, want degraded result attached", v.Enrichment)
	}
}

func TestEngine_Triage_CategoryRefinement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		title    string
		entities Entities
		want     Category
	}{
		{
			name:     "hospital org overrides base",
			title:    "Broken window at the facility",
			entities: Entities{Organizations: []string{"District Hospital"}},
			want:     CategoryHealthcare,
		},
		{
			name:     "school org overrides base",
			title:    "Broken window at the facility",
			entities: Entities{Organizations: []string{"Govt High School"}},
			want:     CategoryEducation,
		},
		{
			name:     "college counts as education",
			title:    "Broken window at the facility",
			entities: Entities{Organizations: []string{"Arts College"}},
			want:     CategoryEducation,
		},
		{
			name:     "water board org overrides base",
			title:    "Billing dispute",
			entities: Entities{Organizations: []string{"Water Board"}},
			want:     CategoryWater,
		},
		{
			name:     "hospital outranks school",
			title:    "Dispute over the plot",
			entities: Entities{Organizations: []string{"School Trust", "Hospital Society"}},
			want:     CategoryHealthcare,
		},
		{
			name:     "no refinement keeps base",
			title:    "Rude clerk at the counter",
			entities: Entities{Organizations: []string{"Ward Office"}},
			want:     CategoryGeneral,
		},
		{
			name:     "location entity alone does not refine",
			title:    "Rude clerk at the counter",
			entities: Entities{Locations: []string{"Gandhi Nagar"}},
			want:     CategoryGeneral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			me := &mockEnricher{result: &EnrichmentResult{Entities: tt.entities}}
			e := NewEngine(me, nil, EngineHooks{})

			v := e.Triage(context.Background(), &Submission{Title: tt.title})
			if v.Category != tt.want {
				t.Errorf("Category = %q, want %q", v.Category, tt.want)
			}
		})
	}
}

func TestEngine_Triage_UrgencyRefinement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		title      string
		enrichment *EnrichmentResult
		want       float64
	}{
		{
			name:  "high similarity duplicate reduces urgency",
			title: "Urgent water leak",
			enrichment: &EnrichmentResult{
				Similarity: SimilarityVerdict{IsDuplicate: true, SimilarityScore: 0.95},
			},
			want: 0.6,
		},
		{
			name:  "duplicate at threshold similarity is not reduced",
			title: "Urgent water leak",
			enrichment: &EnrichmentResult{
				Similarity: SimilarityVerdict{IsDuplicate: true, SimilarityScore: 0.75},
			},
			want: 0.9,
		},
		{
			name:  "reduction floors at 0.2",
			title: "Water bill question",
			enrichment: &EnrichmentResult{
				Similarity: SimilarityVerdict{IsDuplicate: true, SimilarityScore: 0.99},
			},
			want: 0.2,
		},
		{
			name:  "emergency org boosts urgency",
			title: "Water bill question",
			enrichment: &EnrichmentResult{
				Entities: Entities{Organizations: []string{"Emergency Services"}},
			},
			want: 0.5,
		},
		{
			name:  "boost caps at 1.0",
			title: "Critical emergency at the ward",
			enrichment: &EnrichmentResult{
				Entities: Entities{Organizations: []string{"City Hospital"}},
			},
			want: 1.0,
		},
		{
			name:  "reduction then boost apply in sequence",
			title: "Urgent leak outside the clinic",
			enrichment: &EnrichmentResult{
				Entities:   Entities{Organizations: []string{"General Hospital"}},
				Similarity: SimilarityVerdict{IsDuplicate: true, SimilarityScore: 0.9},
			},
			want: 0.8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			me := &mockEnricher{result: tt.enrichment}
			e := NewEngine(me, nil, EngineHooks{})

			v := e.Triage(context.Background(), &Submission{Title: tt.title})
			if !almostEqual(v.UrgencyScore, tt.want) {
				t.Errorf("UrgencyScore = %v, want %v", v.UrgencyScore, tt.want)
			}
		})
	}
}

func TestEngine_Triage_RoutesOnRefinedCategory(t *testing.T) {
	t.Parallel()

	me := &mockEnricher{result: &EnrichmentResult{
		Entities: Entities{Organizations: []string{"Taluka Hospital"}},
	}}
	e := NewEngine(me, nil, EngineHooks{})

	v := e.Triage(context.Background(), &Submission{Title: "Long queue at the counter"})

	if v.Category != CategoryHealthcare {
		t.Fatalf("Category = %q, want %q", v.Category, CategoryHealthcare)
	}
	if v.Department != "Health Department" {
		t.Errorf("Department = %q, want Health Department", v.Department)
	}
}

func TestEngine_Triage_Hooks(t *testing.T) {
	t.Parallel()

	var (
		enrichOutcome string
		dupScore      float64
		triageCalls   int
	)

	me := &mockEnricher{result: &EnrichmentResult{
		Similarity: SimilarityVerdict{IsDuplicate: true, SimilarityScore: 0.85},
	}}
	e := NewEngine(me, nil, EngineHooks{
		OnEnrichment: func(outcome string, _ float64) { enrichOutcome = outcome },
		OnDuplicate:  func(score float64) { dupScore = score },
		OnTriage:     func(Category, string, float64) { triageCalls++ },
	})

	e.Triage(context.Background(), &Submission{Title: "Water leak"})

	if enrichOutcome != EnrichmentOK {
		t.Errorf("enrichment outcome = %q, want %q", enrichOutcome, EnrichmentOK)
	}
	if !almostEqual(dupScore, 0.85) {
		t.Errorf("duplicate score = %v, want 0.85", dupScore)
	}
	if triageCalls != 1 {
		t.Errorf("triage hook calls = %d, want 1", triageCalls)
	}
}

func TestEngine_Triage_SkippedHookOnUnavailable(t *testing.T) {
	t.Parallel()

	var outcome string
	me := &mockEnricher{result: nil}
	e := NewEngine(me, nil, EngineHooks{
		OnEnrichment: func(o string, _ float64) { outcome = o },
	})

	e.Triage(context.Background(), &Submission{Title: "anything"})

	if outcome != EnrichmentSkipped {
		t.Errorf("enrichment outcome = %q, want %q", outcome, EnrichmentSkipped)
	}
}

func TestNewEngine_NilEnricherPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("NewEngine(nil, ...) did not panic")
		}
	}()
	NewEngine(nil, nil, EngineHooks{})
}
