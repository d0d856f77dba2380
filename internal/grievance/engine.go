package grievance

import (
	"context"
	"math"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"
)

var tracer = otel.Tracer("github.com/civicworks/grievd/internal/grievance")

// Enrichment outcomes reported through EngineHooks.OnEnrichment.
const (
	EnrichmentOK       = "ok"
	EnrichmentDegraded = "degraded"
	EnrichmentSkipped  = "skipped"
)

// EngineHooks lets callers observe triage runs without coupling the engine
// to a metrics backend.
type EngineHooks struct {
	OnEnrichment func(outcome string, duration float64)
	OnDuplicate  func(score float64)
	OnTriage     func(category Category, department string, urgency float64)
}

// Engine orchestrates the triage pipeline: base classification and scoring,
// optional enrichment, enrichment-conditioned refinement, then routing on the
// final category. Triage never fails; every input yields a valid verdict.
type Engine struct {
	enricher Enricher
	logger   log.Logger
	hooks    EngineHooks
}

// NewEngine creates a new triage engine. The enricher is required; use
// enrich.Unavailable when no language-model provider is configured.
func NewEngine(enricher Enricher, logger log.Logger, hooks EngineHooks) *Engine {
	if enricher == nil {
		panic(xerrors.New("enricher is required"))
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Engine{
		enricher: enricher,
		logger:   logger,
		hooks:    hooks,
	}
}

// CorpusSize reports the current size of the enricher's similarity corpus.
func (e *Engine) CorpusSize() int { return e.enricher.CorpusSize() }

// Triage produces the consolidated verdict for a submission.
func (e *Engine) Triage(ctx context.Context, sub *Submission) *Verdict {
	ctx, span := tracer.Start(ctx, "grievance.triage")
	defer span.End()

	category := Classify(sub.Title, sub.Description)
	urgency := ScoreUrgency(sub.Title, sub.Description)

	start := time.Now()
	enr := e.enricher.Enrich(ctx, sub.Title, sub.Description)
	elapsed := time.Since(start).Seconds()

	switch {
	case enr == nil:
		if e.hooks.OnEnrichment != nil {
			e.hooks.OnEnrichment(EnrichmentSkipped, elapsed)
		}
	case enr.Degraded():
		e.logger.Warn(ctx, "enrichment degraded, using base pipeline outputs", "error", enr.Error)
		if e.hooks.OnEnrichment != nil {
			e.hooks.OnEnrichment(EnrichmentDegraded, elapsed)
		}
	default:
		if e.hooks.OnEnrichment != nil {
			e.hooks.OnEnrichment(EnrichmentOK, elapsed)
		}
		category = refineCategory(category, enr, sub.Title+" "+sub.Description)
		urgency = refineUrgency(urgency, enr)
		if enr.Similarity.IsDuplicate {
			e.logger.Info(ctx, "near-duplicate submission detected",
				"similarity", enr.Similarity.SimilarityScore,
				"match_index", enr.Similarity.MatchIndex,
			)
			if e.hooks.OnDuplicate != nil {
				e.hooks.OnDuplicate(enr.Similarity.SimilarityScore)
			}
		}
	}

	// Routing always runs on the final category, after refinement.
	department := Route(category, sub.Location)

	span.SetAttributes(
		attribute.String("grievd.category", string(category)),
		attribute.String("grievd.department", department),
		attribute.Float64("grievd.urgency", urgency),
		attribute.Bool("grievd.enriched", enr != nil && !enr.Degraded()),
	)

	if e.hooks.OnTriage != nil {
		e.hooks.OnTriage(category, department, urgency)
	}

	return &Verdict{
		Category:     category,
		UrgencyScore: urgency,
		Department:   department,
		Enrichment:   enr,
	}
}

// refineCategory applies the organization-entity overrides, then the
// location-entity fallback for otherwise-general grievances. Organization
// matches win over the base category; hospital outranks school outranks
// water.
func refineCategory(base Category, enr *EnrichmentResult, text string) Category {
	switch {
	case orgMentions(enr, "hospital"):
		return CategoryHealthcare
	case orgMentions(enr, "school") || orgMentions(enr, "college"):
		return CategoryEducation
	case orgMentions(enr, "water"):
		return CategoryWater
	}

	// Any location entity at all qualifies here; the check is on the full
	// text, not on the entity spans.
	if base == CategoryGeneral && len(enr.Entities.Locations) > 0 {
		lower := strings.ToLower(text)
		if strings.Contains(lower, "road") || strings.Contains(lower, "street") {
			return CategoryInfrastructure
		}
	}
	return base
}

// refineUrgency applies the duplicate reduction first, then the
// emergency-organization boost. Both may apply in sequence.
func refineUrgency(base float64, enr *EnrichmentResult) float64 {
	urgency := base
	if enr.Similarity.IsDuplicate && enr.Similarity.SimilarityScore > 0.8 {
		urgency = math.Max(urgency-0.3, 0.2)
	}
	if orgMentions(enr, "emergency") || orgMentions(enr, "hospital") {
		urgency = math.Min(urgency+0.2, 1.0)
	}
	return urgency
}

func orgMentions(enr *EnrichmentResult, keyword string) bool {
	for _, org := range enr.Entities.Organizations {
		if strings.Contains(strings.ToLower(org), keyword) {
			return true
		}
	}
	return false
}
