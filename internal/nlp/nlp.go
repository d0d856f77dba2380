// Package nlp defines the named-entity recognizer boundary and its provider
// implementations. The recognizer is a black box to the rest of the system:
// text in, labeled spans out. NewRecognizer selects the provider once at
// startup; an empty provider name disables enrichment for the process.
package nlp

import "context"

// Label is the semantic class of a recognized entity span.
type Label string

const (
	LabelLocation     Label = "location"
	LabelOrganization Label = "organization"
	LabelPerson       Label = "person"
)

// Entity is a span of text recognized as referring to a location,
// organization, or person.
type Entity struct {
	Text  string `json:"text"`
	Label Label  `json:"label"`
}

// Recognizer extracts named entities from free text. Implementations should
// honor context cancellation; callers wrap every Extract in a failure
// boundary, so an error here degrades a single enrichment, nothing more.
type Recognizer interface {
	Name() string
	Extract(ctx context.Context, text string) ([]Entity, error)
}

// NormalizeLabel maps a provider's label spelling onto the three classes the
// pipeline buckets by. Unknown labels are dropped by callers.
func NormalizeLabel(raw string) (Label, bool) {
	switch raw {
	case "location", "loc", "gpe", "place", "LOCATION", "LOC", "GPE":
		return LabelLocation, true
	case "organization", "organisation", "org", "ORGANIZATION", "ORG":
		return LabelOrganization, true
	case "person", "per", "people", "PERSON", "PER":
		return LabelPerson, true
	default:
		return "", false
	}
}
