// Package grievance provides the business boundary for grievd's citizen
// grievance triage pipeline. It defines the pure classifiers (category,
// urgency, department routing), the Engine (triage orchestration with
// optional NLP refinement), the Service (lifecycle, persistence, analytics,
// notification dispatch), the Store interface, and the domain models.
package grievance
