// Package memstore provides an in-memory implementation of grievance.Store.
package memstore

import (
	"context"
	"sync"

	"github.com/civicworks/grievd/internal/grievance"
)

// Store holds grievance records in memory. Suitable for dev/testing and for
// deployments without a database.
type Store struct {
	mu      sync.RWMutex
	records map[string]*grievance.Record // grievance ID -> record
	order   []string                     // IDs in submission order
}

// New initializes a new in-memory Store.
func New() *Store {
	return &Store{
		records: make(map[string]*grievance.Record),
	}
}

// Put stores a copy of the record. First insert fixes its list position;
// overwrites keep it.
func (s *Store) Put(_ context.Context, rec *grievance.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[rec.ID]; !exists {
		s.order = append(s.order, rec.ID)
	}
	cp := *rec
	s.records[rec.ID] = &cp
	return nil
}

// Get retrieves a record by its ID. Returns a copy.
func (s *Store) Get(_ context.Context, id string) (*grievance.Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return nil, false, nil
	}
	cp := *r
	return &cp, true, nil
}

// List returns copies of all records in submission order.
func (s *Store) List(_ context.Context) ([]*grievance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*grievance.Record, 0, len(s.order))
	for _, id := range s.order {
		cp := *s.records[id]
		out = append(out, &cp)
	}
	return out, nil
}
