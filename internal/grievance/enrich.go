package grievance

import "context"

// Enricher is the optional NLP enrichment collaborator. Implementations must
// never return an error to the caller:
//
//   - nil result means enrichment is not available for this process;
//   - a result with a non-empty Error means enrichment was attempted but
//     degraded (the similarity corpus may or may not have been updated,
//     depending on whether cleaning succeeded).
//
// The enricher exclusively owns the similarity corpus; CorpusSize exposes
// its current length for dashboards.
type Enricher interface {
	Enrich(ctx context.Context, title, description string) *EnrichmentResult
	CorpusSize() int
}
