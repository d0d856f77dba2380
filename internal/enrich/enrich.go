// Package enrich implements the optional NLP enrichment stage: named-entity
// extraction, text normalization, and near-duplicate similarity against the
// process-wide corpus. It is best-effort by contract; nothing in this package
// may fail the triage pipeline.
package enrich

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/linnemanlabs/go-core/log"

	"github.com/civicworks/grievd/internal/grievance"
	"github.com/civicworks/grievd/internal/nlp"
	"github.com/civicworks/grievd/internal/similarity"
)

// DefaultTimeout bounds a single enrichment attempt, model call included.
const DefaultTimeout = 30 * time.Second

const (
	cacheTTL     = 10 * time.Minute
	cacheCleanup = 15 * time.Minute
)

// Unavailable is the Enricher used when no language-model provider is
// configured at startup. Every submission falls back to the base pipeline.
type Unavailable struct{}

func (Unavailable) Enrich(context.Context, string, string) *grievance.EnrichmentResult {
	return nil
}

func (Unavailable) CorpusSize() int { return 0 }

// Live is the model-backed Enricher. It owns the similarity corpus: the
// orchestrator never touches the index directly.
type Live struct {
	recognizer nlp.Recognizer
	index      *similarity.Index
	cache      *gocache.Cache // text -> extraction, spares the model on exact resubmits
	timeout    time.Duration
	logger     log.Logger
}

type extraction struct {
	entities grievance.Entities
}

// NewLive creates a model-backed Enricher. A non-positive timeout falls back
// to DefaultTimeout.
func NewLive(recognizer nlp.Recognizer, index *similarity.Index, timeout time.Duration, logger log.Logger) *Live {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Live{
		recognizer: recognizer,
		index:      index,
		cache:      gocache.New(cacheTTL, cacheCleanup),
		timeout:    timeout,
		logger:     logger,
	}
}

// CorpusSize reports the current similarity-corpus size.
func (l *Live) CorpusSize() int { return l.index.Size() }

// Enrich extracts entities, normalizes the text, and compares it against the
// corpus. Any failure (model error, timeout, panic) yields a degraded
// result with zeroed similarity; the cleaned text still joins the corpus so
// later submissions can match against it. Only a failed cleaning (empty
// normalized text) skips the append.
func (l *Live) Enrich(ctx context.Context, title, description string) (res *grievance.EnrichmentResult) {
	text := title + " " + description
	cleaned := cleanText(text)

	defer func() {
		if r := recover(); r != nil {
			l.logger.Error(context.WithoutCancel(ctx), fmt.Errorf("panic: %v", r), "enrichment panicked")
			res = l.degrade(cleaned, fmt.Sprintf("enrichment panic: %v", r))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	entities, err := l.extract(ctx, text)
	if err != nil {
		l.logger.Warn(context.WithoutCancel(ctx), "entity extraction failed", "error", err)
		return l.degrade(cleaned, err.Error())
	}

	// Compare against the corpus as it existed before this submission, then
	// append; the index makes that a single critical section.
	v := l.index.ObserveAndAppend(cleaned)

	sv := grievance.SimilarityVerdict{
		IsDuplicate:     v.IsDuplicate,
		SimilarityScore: v.Score,
	}
	if v.IsDuplicate {
		idx := v.MatchIndex
		sv.MatchIndex = &idx
	}

	return &grievance.EnrichmentResult{
		Entities:    entities,
		CleanedText: cleaned,
		Similarity:  sv,
	}
}

// degrade builds the error-marked result and, if cleaning succeeded, still
// records the text for future comparisons.
func (l *Live) degrade(cleaned, errMsg string) *grievance.EnrichmentResult {
	if cleaned != "" {
		l.index.Append(cleaned)
	}
	return &grievance.EnrichmentResult{
		CleanedText: cleaned,
		Similarity:  grievance.SimilarityVerdict{Error: errMsg},
		Error:       errMsg,
	}
}

// extract runs NER, through the cache for exact-text repeats.
func (l *Live) extract(ctx context.Context, text string) (grievance.Entities, error) {
	if hit, ok := l.cache.Get(text); ok {
		return hit.(extraction).entities, nil
	}

	spans, err := l.recognizer.Extract(ctx, text)
	if err != nil {
		return grievance.Entities{}, err
	}

	entities := bucketEntities(spans)
	l.cache.SetDefault(text, extraction{entities: entities})
	return entities, nil
}

// bucketEntities groups spans by label class and deduplicates each bucket.
func bucketEntities(spans []nlp.Entity) grievance.Entities {
	var e grievance.Entities
	e.Locations = dedupe(texts(spans, nlp.LabelLocation))
	e.Organizations = dedupe(texts(spans, nlp.LabelOrganization))
	e.Persons = dedupe(texts(spans, nlp.LabelPerson))
	return e
}

func texts(spans []nlp.Entity, label nlp.Label) []string {
	var out []string
	for _, s := range spans {
		if s.Label == label {
			out = append(out, s.Text)
		}
	}
	return out
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// cleanText collapses all whitespace runs to single spaces, the normalized
// form stored in the similarity corpus.
func cleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
