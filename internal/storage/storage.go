package storage

import (
	"context"

	"github.com/bcnelson/meraki-device-swap/internal/domain"
)

// Storage defines the interface for the operation history store.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Close closes the storage connection.
	Close() error

	// Operation records (append-only)
	CreateOperationRecord(ctx context.Context, record *domain.OperationRecord) error
	ListOperationRecords(ctx context.Context, limit int) ([]*domain.OperationRecord, error)
}
