package grievance

import (
	"context"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/oklog/ulid/v2"
)

// HighUrgencyThreshold marks the urgency score at or above which a grievance
// counts as high-urgency for dashboards and notifications.
const HighUrgencyThreshold = 0.7

// Notifier receives high-urgency grievance records after they are stored.
type Notifier interface {
	Notify(ctx context.Context, rec *Record) error
}

// Service is the business boundary for grievance operations.
type Service struct {
	store    Store
	engine   *Engine
	logger   log.Logger
	notifier Notifier // optional
}

// NewService creates a new grievance service. The notifier may be nil.
func NewService(store Store, engine *Engine, logger log.Logger, notifier Notifier) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{
		store:    store,
		engine:   engine,
		logger:   logger,
		notifier: notifier,
	}
}

// Submit triages a submission, stores the resulting record, and returns it.
// Triage is synchronous; notification dispatch is not.
func (s *Service) Submit(ctx context.Context, sub *Submission) (*Record, error) {
	verdict := s.engine.Triage(ctx, sub)

	rec := &Record{
		ID:           ulid.Make().String(),
		Submission:   *sub,
		Category:     verdict.Category,
		UrgencyScore: verdict.UrgencyScore,
		Department:   verdict.Department,
		Status:       StatusSubmitted,
		CreatedAt:    time.Now().UTC(),
		Enrichment:   verdict.Enrichment,
	}

	if err := s.store.Put(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "grievance triaged",
		"id", rec.ID,
		"category", rec.Category,
		"department", rec.Department,
		"urgency", rec.UrgencyScore,
	)

	if s.notifier != nil && rec.UrgencyScore >= HighUrgencyThreshold {
		// detach from the request context so a slow webhook cannot hold the
		// response, and a cancelled request cannot lose the notification.
		go s.notify(context.WithoutCancel(ctx), rec)
	}

	return rec, nil
}

func (s *Service) notify(ctx context.Context, rec *Record) {
	if err := s.notifier.Notify(ctx, rec); err != nil {
		s.logger.Error(ctx, err, "high-urgency notification failed", "id", rec.ID)
	}
}

// Get retrieves a grievance record by ID.
func (s *Service) Get(ctx context.Context, id string) (*Record, bool, error) {
	return s.store.Get(ctx, id)
}

// List returns all grievance records in submission order.
func (s *Service) List(ctx context.Context) ([]*Record, error) {
	return s.store.List(ctx)
}

// Dashboard computes the analytics snapshot over all stored grievances.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	recs, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		TotalGrievances:        len(recs),
		CategoryDistribution:   make(map[Category]int),
		DepartmentDistribution: make(map[string]int),
		CorpusSize:             s.engine.CorpusSize(),
	}
	for _, r := range recs {
		d.CategoryDistribution[r.Category]++
		d.DepartmentDistribution[r.Department]++
		if r.UrgencyScore >= HighUrgencyThreshold {
			d.HighUrgencyCount++
		}
	}
	return d, nil
}

// CorpusSize reports the current similarity-corpus size.
func (s *Service) CorpusSize() int { return s.engine.CorpusSize() }
