package memory

import (
	"context"
	"sync"

	"github.com/bcnelson/meraki-device-swap/internal/domain"
)

// Store is an in-memory implementation of the storage interface for
// testing.
type Store struct {
	mu      sync.RWMutex
	records []*domain.OperationRecord
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{}
}

func (s *Store) Close() error { return nil }

// CreateOperationRecord appends one orchestration outcome.
func (s *Store) CreateOperationRecord(ctx context.Context, record *domain.OperationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *record
	s.records = append(s.records, &copied)
	return nil
}

// ListOperationRecords returns the most recent records, newest first.
func (s *Store) ListOperationRecords(ctx context.Context, limit int) ([]*domain.OperationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*domain.OperationRecord, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(records) < limit; i-- {
		copied := *s.records[i]
		records = append(records, &copied)
	}
	return records, nil
}
