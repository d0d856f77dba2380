// Package grievapi exposes the grievance service over HTTP. It owns only
// request/response marshaling; every decision happens behind the service
// boundary.
package grievapi

import (
	"context"
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/civicworks/grievd/internal/grievance"
)

// GrievanceService defines the business operations grievapi needs.
type GrievanceService interface {
	Submit(ctx context.Context, sub *grievance.Submission) (*grievance.Record, error)
	Get(ctx context.Context, id string) (*grievance.Record, bool, error)
	List(ctx context.Context) ([]*grievance.Record, error)
	Dashboard(ctx context.Context) (*grievance.Dashboard, error)
}

// API holds dependencies for HTTP handlers.
type API struct {
	logger log.Logger
	svc    GrievanceService
}

// New creates a new API handler.
func New(logger log.Logger, svc GrievanceService) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if svc == nil {
		panic(xerrors.New("grievance service is required"))
	}
	return &API{
		logger: logger,
		svc:    svc,
	}
}

// RegisterRoutes attaches API endpoints to the router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/grievances", a.handleSubmit)
		r.Get("/grievances", a.handleList)
		r.Get("/grievances/{id}", a.handleGet)
		r.Get("/dashboard", a.handleDashboard)
	})
}

func (a *API) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var sub grievance.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}

	// Empty fields are allowed: the pipeline is total and yields the
	// general/base verdict for them.
	rec, err := a.svc.Submit(r.Context(), &sub)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to submit grievance")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(
		attribute.String("grievd.grievance.id", rec.ID),
		attribute.String("grievd.category", string(rec.Category)),
		attribute.String("grievd.department", rec.Department),
	)

	writeJSON(w, http.StatusCreated, rec)
}

func (a *API) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("grievd.grievance.id", id))

	rec, ok, err := a.svc.Get(r.Context(), id)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to get grievance", "id", id)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (a *API) handleList(w http.ResponseWriter, r *http.Request) {
	recs, err := a.svc.List(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to list grievances")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []*grievance.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := a.svc.Dashboard(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to compute dashboard")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
