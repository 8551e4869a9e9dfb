package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/andrifar/lemdik-sched-api/internal/models"
)

// UsageRecordRepository persists per-slot resource usage aggregates.
// slot_key is the primary key, so Upsert is a single ON CONFLICT statement.
type UsageRecordRepository struct {
	db *sqlx.DB
}

// NewUsageRecordRepository constructs a UsageRecordRepository.
func NewUsageRecordRepository(db *sqlx.DB) *UsageRecordRepository {
	return &UsageRecordRepository{db: db}
}

// Get fetches the usage record for one slot key. Callers distinguish a
// missing record via sql.ErrNoRows.
func (r *UsageRecordRepository) Get(ctx context.Context, slotKey string) (*models.UsageRecord, error) {
	const query = `SELECT slot_key, lecturer_ids, location_counts, updated_at FROM usage_records WHERE slot_key = $1`
	var record models.UsageRecord
	if err := r.db.GetContext(ctx, &record, query, slotKey); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListAll returns every usage record ordered by slot key.
func (r *UsageRecordRepository) ListAll(ctx context.Context) ([]models.UsageRecord, error) {
	const query = `SELECT slot_key, lecturer_ids, location_counts, updated_at FROM usage_records ORDER BY slot_key`
	var records []models.UsageRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list usage records: %w", err)
	}
	return records, nil
}

// Upsert writes the full aggregate for one slot key, replacing any
// previous row. The tracker owns the read-modify-write cycle.
func (r *UsageRecordRepository) Upsert(ctx context.Context, record *models.UsageRecord) error {
	record.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO usage_records (slot_key, lecturer_ids, location_counts, updated_at)
		VALUES (:slot_key, :lecturer_ids, :location_counts, :updated_at)
		ON CONFLICT (slot_key) DO UPDATE SET lecturer_ids = EXCLUDED.lecturer_ids, location_counts = EXCLUDED.location_counts, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("upsert usage record: %w", err)
	}
	return nil
}

// DeleteAll truncates the usage aggregate ahead of a rebuild.
func (r *UsageRecordRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM usage_records`); err != nil {
		return fmt.Errorf("delete usage records: %w", err)
	}
	return nil
}
