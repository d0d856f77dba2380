package grievance

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the grievance subsystem.
type Metrics struct {
	TriagesTotal       *prometheus.CounterVec
	RoutesTotal        *prometheus.CounterVec
	UrgencyScore       prometheus.Histogram
	EnrichmentsTotal   *prometheus.CounterVec
	EnrichmentDuration prometheus.Histogram
	DuplicatesTotal    prometheus.Counter
	DuplicateScore     prometheus.Histogram
}

// NewMetrics registers and returns grievance metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TriagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grievd_triages_total",
			Help: "Total triage runs by final category.",
		}, []string{"category"}),
		RoutesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grievd_routes_total",
			Help: "Total triage runs by routed department.",
		}, []string{"department"}),
		UrgencyScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "grievd_urgency_score",
			Help:    "Final urgency score per triage run.",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11), // 0.0 .. 1.0
		}),
		EnrichmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grievd_enrichments_total",
			Help: "Total enrichment attempts by outcome (ok, degraded, skipped).",
		}, []string{"outcome"}),
		EnrichmentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "grievd_enrichment_duration_seconds",
			Help:    "Duration of enrichment attempts in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms .. ~25s
		}),
		DuplicatesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "grievd_duplicates_total",
			Help: "Total submissions flagged as near-duplicates.",
		}),
		DuplicateScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "grievd_duplicate_similarity_score",
			Help:    "Similarity score of flagged near-duplicates.",
			Buckets: prometheus.LinearBuckets(0.7, 0.05, 7), // 0.70 .. 1.00
		}),
	}

	reg.MustRegister(
		m.TriagesTotal,
		m.RoutesTotal,
		m.UrgencyScore,
		m.EnrichmentsTotal,
		m.EnrichmentDuration,
		m.DuplicatesTotal,
		m.DuplicateScore,
	)

	return m
}

// Hooks returns an EngineHooks that increments the corresponding metrics.
func (m *Metrics) Hooks() EngineHooks {
	return EngineHooks{
		OnEnrichment: func(outcome string, duration float64) {
			m.EnrichmentsTotal.WithLabelValues(outcome).Inc()
			if outcome != EnrichmentSkipped {
				m.EnrichmentDuration.Observe(duration)
			}
		},
		OnDuplicate: func(score float64) {
			m.DuplicatesTotal.Inc()
			m.DuplicateScore.Observe(score)
		},
		OnTriage: func(category Category, department string, urgency float64) {
			m.TriagesTotal.WithLabelValues(string(category)).Inc()
			m.RoutesTotal.WithLabelValues(department).Inc()
			m.UrgencyScore.Observe(urgency)
		},
	}
}
