package grievance

import "context"

// Store is the persistence interface for grievance records.
type Store interface {
	Put(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id string) (*Record, bool, error)
	// List returns all records in submission order (oldest first).
	List(ctx context.Context) ([]*Record, error)
}
