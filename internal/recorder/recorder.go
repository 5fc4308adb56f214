// Package recorder persists one outcome record per orchestration run.
// Recording is best-effort: sinks may fail, the orchestration result
// never depends on them.
package recorder

import (
	"context"
	"errors"
	"os"

	"github.com/bcnelson/meraki-device-swap/internal/domain"
	"github.com/bcnelson/meraki-device-swap/internal/storage"
	"github.com/rs/zerolog"
)

// Recorder appends a structured outcome record for an orchestration
// run.
type Recorder interface {
	Record(ctx context.Context, record *domain.OperationRecord) error
}

// Nop discards records. Used when auditing is disabled.
type Nop struct{}

func (Nop) Record(context.Context, *domain.OperationRecord) error { return nil }

// FileRecorder appends JSON-lines audit entries to a file.
type FileRecorder struct {
	file   *os.File
	logger zerolog.Logger
}

// NewFileRecorder opens (or creates) the audit log in append-only mode.
func NewFileRecorder(path string) (*FileRecorder, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileRecorder{
		file:   file,
		logger: zerolog.New(file).With().Timestamp().Logger(),
	}, nil
}

// Record writes one audit line.
func (f *FileRecorder) Record(_ context.Context, record *domain.OperationRecord) error {
	f.logger.Info().
		Str("record_id", record.ID).
		Str("status", record.Status).
		Str("failed_serial", record.FailedSerial).
		Str("replacement_serial", record.ReplacementSerial).
		Str("organization_id", record.OrganizationID).
		Str("network_id", record.NetworkID).
		Str("detail", record.Detail).
		Strs("transferred", record.Transferred).
		Msg("device replacement")
	return nil
}

// Close closes the underlying file.
func (f *FileRecorder) Close() error {
	return f.file.Close()
}

// StoreRecorder persists records through the storage layer.
type StoreRecorder struct {
	store storage.Storage
}

// NewStoreRecorder creates a storage-backed recorder.
func NewStoreRecorder(store storage.Storage) *StoreRecorder {
	return &StoreRecorder{store: store}
}

// Record appends the record to the operation history table.
func (s *StoreRecorder) Record(ctx context.Context, record *domain.OperationRecord) error {
	return s.store.CreateOperationRecord(ctx, record)
}

// Multi fans a record out to every sink, collecting failures.
type Multi []Recorder

// Record sends the record to each sink in order.
func (m Multi) Record(ctx context.Context, record *domain.OperationRecord) error {
	var errs []error
	for _, r := range m {
		if err := r.Record(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
