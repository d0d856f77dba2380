package grievapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"

	"github.com/civicworks/grievd/internal/enrich"
	"github.com/civicworks/grievd/internal/grievance"
	"github.com/civicworks/grievd/internal/grievance/memstore"
)

func newTestService(t *testing.T) *grievance.Service {
	t.Helper()
	engine := grievance.NewEngine(enrich.Unavailable{}, nil, grievance.EngineHooks{})
	return grievance.NewService(memstore.New(), engine, nil, nil)
}

func newTestRouter(t *testing.T) (chi.Router, *grievance.Service) {
	t.Helper()
	svc := newTestService(t)
	api := New(nil, svc)
	r := chi.NewRouter()
	api.RegisterRoutes(r)
	return r, svc
}

//  New / constructor

func TestNew_NilLogger(t *testing.T) {
	t.Parallel()

	api := New(nil, newTestService(t))
	if api == nil {
		t.Fatal("New(nil, svc) returned nil API")
	}
	if api.logger == nil {
		t.Fatal("New(nil, svc) left logger nil; expected Nop logger")
	}
}

func TestNew_WithLogger(t *testing.T) {
	t.Parallel()

	api := New(log.Nop(), newTestService(t))
	if api == nil {
		t.Fatal("New(logger, svc) returned nil API")
	}
}

func TestNew_NilService_Panics(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("New(nil, nil) did not panic; expected panic for nil service")
		}
	}()
	New(nil, nil)
}

// Submission

func TestSubmitGrievance(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	body := `{
		"title": "Huge pothole on main road",
		"description": "Serious damage to vehicles every day",
		"citizen_name": "A. Citizen",
		"citizen_contact": "9999999999",
		"location": "MG Road, Pune"
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/grievances", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var got grievance.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID == "" {
		t.Error("response record has empty ID")
	}
	if got.Category != grievance.CategoryInfrastructure {
		t.Errorf("category = %q, want %q", got.Category, grievance.CategoryInfrastructure)
	}
	if got.Department != "Public Works Department" {
		t.Errorf("department = %q, want Public Works Department", got.Department)
	}
	if got.Status != grievance.StatusSubmitted {
		t.Errorf("status = %q, want %q", got.Status, grievance.StatusSubmitted)
	}
}

func TestSubmitGrievance_InvalidJSON(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/grievances", strings.NewReader(`{bad`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSubmitGrievance_EmptyPayload(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/grievances", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	// Empty fields are valid; the pipeline is total and yields the base verdict.
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	var got grievance.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Category != grievance.CategoryGeneral {
		t.Errorf("category = %q, want %q", got.Category, grievance.CategoryGeneral)
	}
	if got.Department != "General Administration" {
		t.Errorf("department = %q, want General Administration", got.Department)
	}
}

// Retrieval

func TestGetGrievance(t *testing.T) {
	t.Parallel()

	r, svc := newTestRouter(t)

	stored, err := svc.Submit(httptest.NewRequest(http.MethodGet, "/", nil).Context(), &grievance.Submission{
		Title: "Water leak near the park",
	})
	if err != nil {
		t.Fatalf("seed submit: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/grievances/"+stored.ID, http.NoBody)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got grievance.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != stored.ID {
		t.Errorf("ID = %q, want %q", got.ID, stored.ID)
	}
}

func TestGetGrievance_NotFound(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/grievances/01UNKNOWN", http.NoBody)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestListGrievances(t *testing.T) {
	t.Parallel()

	r, svc := newTestRouter(t)

	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	for _, title := range []string{"Water leak", "Garbage pileup", "Power cut"} {
		if _, err := svc.Submit(ctx, &grievance.Submission{Title: title}); err != nil {
			t.Fatalf("seed submit: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/grievances", http.NoBody)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got []grievance.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Title != "Water leak" {
		t.Errorf("first record title = %q, want submission order preserved", got[0].Title)
	}
}

func TestListGrievances_Empty(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/grievances", http.NoBody)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("body = %q, want empty JSON array", body)
	}
}

// Dashboard

func TestDashboard(t *testing.T) {
	t.Parallel()

	r, svc := newTestRouter(t)

	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	if _, err := svc.Submit(ctx, &grievance.Submission{Title: "Emergency water leak"}); err != nil {
		t.Fatalf("seed submit: %v", err)
	}
	if _, err := svc.Submit(ctx, &grievance.Submission{Title: "Faded signboard"}); err != nil {
		t.Fatalf("seed submit: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", http.NoBody)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got grievance.Dashboard
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.TotalGrievances != 2 {
		t.Errorf("TotalGrievances = %d, want 2", got.TotalGrievances)
	}
	if got.HighUrgencyCount != 1 {
		t.Errorf("HighUrgencyCount = %d, want 1", got.HighUrgencyCount)
	}
	if got.CategoryDistribution[grievance.CategoryWater] != 1 {
		t.Errorf("CategoryDistribution[water] = %d, want 1", got.CategoryDistribution[grievance.CategoryWater])
	}
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/grievances", http.NoBody)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
