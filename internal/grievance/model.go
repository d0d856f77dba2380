package grievance

import "time"

// Category is the coarse grievance class produced by the lexical classifier.
type Category string

const (
	CategoryInfrastructure Category = "infrastructure"
	CategoryWater          Category = "water"
	CategoryElectricity    Category = "electricity"
	CategoryHealthcare     Category = "healthcare"
	CategoryEducation      Category = "education"
	CategoryEnvironment    Category = "environment"
	CategoryGeneral        Category = "general"
)

// Status tracks where a stored grievance is in its lifecycle.
type Status string

const (
	// StatusSubmitted means accepted and triaged; all records start here.
	StatusSubmitted Status = "submitted"
)

// Submission is a citizen-filed grievance. Immutable once created; duplicates
// are expected and are exactly what similarity detection is for.
type Submission struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	CitizenName    string `json:"citizen_name"`
	CitizenContact string `json:"citizen_contact"`
	Location       string `json:"location"`
}

// Entities are named-entity mentions bucketed by semantic class. Each bucket
// is deduplicated; order carries no meaning.
type Entities struct {
	Locations     []string `json:"locations"`
	Organizations []string `json:"organizations"`
	Persons       []string `json:"persons"`
}

// SimilarityVerdict is the outcome of comparing a submission against the
// corpus of previously seen texts. MatchIndex is set only when IsDuplicate
// is true and refers to the position in the append-ordered corpus.
type SimilarityVerdict struct {
	IsDuplicate     bool    `json:"is_duplicate"`
	SimilarityScore float64 `json:"similarity_score"`
	MatchIndex      *int    `json:"similar_grievance_index,omitempty"`
	Error           string  `json:"error,omitempty"`
}

// EnrichmentResult is the optional NLP enrichment attached to a verdict.
// Computed once at verdict-construction time and never mutated afterward.
// A non-empty Error means enrichment was attempted but degraded; the base
// pipeline outputs then stand unrefined.
type EnrichmentResult struct {
	Entities    Entities          `json:"entities"`
	CleanedText string            `json:"cleaned_text"`
	Similarity  SimilarityVerdict `json:"similarity"`
	Error       string            `json:"error,omitempty"`
}

// Degraded reports whether enrichment failed partway.
func (r *EnrichmentResult) Degraded() bool { return r.Error != "" }

// Verdict is the consolidated outcome of triaging one submission. Category
// and Department are never empty; UrgencyScore is always in [0,1].
type Verdict struct {
	Category     Category          `json:"category"`
	UrgencyScore float64           `json:"urgency_score"`
	Department   string            `json:"department"`
	Enrichment   *EnrichmentResult `json:"enrichment,omitempty"`
}

// Record is a stored grievance: the submission plus its triage verdict.
type Record struct {
	ID string `json:"id"`
	Submission
	Category     Category          `json:"category"`
	UrgencyScore float64           `json:"urgency_score"`
	Department   string            `json:"department"`
	Status       Status            `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	Enrichment   *EnrichmentResult `json:"enrichment,omitempty"`
}

// Dashboard is an analytics snapshot over all stored grievances.
type Dashboard struct {
	TotalGrievances        int              `json:"total_grievances"`
	HighUrgencyCount       int              `json:"high_urgency_count"`
	CategoryDistribution   map[Category]int `json:"category_distribution"`
	DepartmentDistribution map[string]int   `json:"department_distribution"`
	CorpusSize             int              `json:"similarity_corpus_size"`
}
