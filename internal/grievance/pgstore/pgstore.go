// Package pgstore provides a PostgreSQL implementation of grievance.Store.
package pgstore

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civicworks/grievd/internal/grievance"
)

var tracer = otel.Tracer("github.com/civicworks/grievd/internal/grievance/pgstore")

//go:embed schema.sql
var schema string

// Store persists grievance records in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New applies the schema on the given pool and returns a ready Store.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

const grievanceColumns = `id, title, description, citizen_name, citizen_contact, location,
	category, urgency_score, department, status, created_at, enrichment`

// Put upserts a grievance record.
func (s *Store) Put(ctx context.Context, rec *grievance.Record) error {
	ctx, span := tracer.Start(ctx, "pgstore.Put", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "INSERT"),
	))
	defer span.End()

	var enrichment []byte
	if rec.Enrichment != nil {
		b, err := json.Marshal(rec.Enrichment)
		if err != nil {
			return fmt.Errorf("marshal enrichment: %w", err)
		}
		enrichment = b
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO grievances (`+grievanceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			category = EXCLUDED.category,
			urgency_score = EXCLUDED.urgency_score,
			department = EXCLUDED.department,
			status = EXCLUDED.status,
			enrichment = EXCLUDED.enrichment`,
		rec.ID, rec.Title, rec.Description, rec.CitizenName, rec.CitizenContact,
		rec.Location, string(rec.Category), rec.UrgencyScore, rec.Department,
		string(rec.Status), rec.CreatedAt, enrichment,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("insert grievance: %w", err)
	}
	return nil
}

// Get retrieves a grievance record by ID.
func (s *Store) Get(ctx context.Context, id string) (*grievance.Record, bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.Get", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + grievanceColumns + ` FROM grievances WHERE id = $1`
	rec, err := scanRecord(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	return rec, true, nil
}

// List returns all grievance records in submission order.
func (s *Store) List(ctx context.Context) ([]*grievance.Record, error) {
	ctx, span := tracer.Start(ctx, "pgstore.List", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + grievanceColumns + ` FROM grievances ORDER BY created_at, id`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("list grievances: %w", err)
	}
	defer rows.Close()

	var out []*grievance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grievances: %w", err)
	}
	return out, nil
}

func scanRecord(row pgx.Row) (*grievance.Record, error) {
	var (
		rec        grievance.Record
		category   string
		status     string
		enrichment []byte
	)
	err := row.Scan(
		&rec.ID, &rec.Title, &rec.Description, &rec.CitizenName, &rec.CitizenContact,
		&rec.Location, &category, &rec.UrgencyScore, &rec.Department, &status,
		&rec.CreatedAt, &enrichment,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan grievance: %w", err)
	}
	rec.Category = grievance.Category(category)
	rec.Status = grievance.Status(status)

	if len(enrichment) > 0 {
		var er grievance.EnrichmentResult
		if err := json.Unmarshal(enrichment, &er); err != nil {
			return nil, fmt.Errorf("unmarshal enrichment: %w", err)
		}
		rec.Enrichment = &er
	}
	return &rec, nil
}
