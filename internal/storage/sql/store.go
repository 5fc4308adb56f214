package sql

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bcnelson/meraki-device-swap/internal/domain"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Store implements the storage.Storage interface using SQL.
type Store struct {
	db     *sqlx.DB
	driver string
}

// New creates a new SQL store and runs pending migrations.
func New(driver, dsn string) (*Store, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(driver); err != nil {
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db, driver: driver}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// recordRow is the flat row shape; the transferred categories are
// stored as a JSON array in a text column.
type recordRow struct {
	ID                string    `db:"id"`
	CreatedAt         time.Time `db:"created_at"`
	Status            string    `db:"status"`
	FailedSerial      string    `db:"failed_serial"`
	ReplacementSerial string    `db:"replacement_serial"`
	OrganizationID    string    `db:"organization_id"`
	NetworkID         string    `db:"network_id"`
	Detail            string    `db:"detail"`
	Transferred       string    `db:"transferred"`
}

// CreateOperationRecord appends one orchestration outcome.
func (s *Store) CreateOperationRecord(ctx context.Context, record *domain.OperationRecord) error {
	transferred, err := json.Marshal(record.Transferred)
	if err != nil {
		return fmt.Errorf("encoding transferred categories: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO operation_records
		 (id, created_at, status, failed_serial, replacement_serial, organization_id, network_id, detail, transferred)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		record.ID, record.CreatedAt, record.Status, record.FailedSerial, record.ReplacementSerial,
		record.OrganizationID, record.NetworkID, record.Detail, string(transferred))
	return err
}

// ListOperationRecords returns the most recent records, newest first.
func (s *Store) ListOperationRecords(ctx context.Context, limit int) ([]*domain.OperationRecord, error) {
	var rows []recordRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, created_at, status, failed_serial, replacement_serial, organization_id, network_id, detail, transferred
		 FROM operation_records ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	records := make([]*domain.OperationRecord, 0, len(rows))
	for _, row := range rows {
		record := &domain.OperationRecord{
			ID:                row.ID,
			CreatedAt:         row.CreatedAt,
			Status:            row.Status,
			FailedSerial:      row.FailedSerial,
			ReplacementSerial: row.ReplacementSerial,
			OrganizationID:    row.OrganizationID,
			NetworkID:         row.NetworkID,
			Detail:            row.Detail,
		}
		if row.Transferred != "" {
			if err := json.Unmarshal([]byte(row.Transferred), &record.Transferred); err != nil {
				return nil, fmt.Errorf("decoding transferred categories for %s: %w", row.ID, err)
			}
		}
		records = append(records, record)
	}
	return records, nil
}
