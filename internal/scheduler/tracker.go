package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/andrifar/lemdik-sched-api/internal/models"
)

type usageRecordStore interface {
	Get(ctx context.Context, slotKey string) (*models.UsageRecord, error)
	Upsert(ctx context.Context, record *models.UsageRecord) error
	DeleteAll(ctx context.Context) error
}

// SlotUsage is a read-only snapshot of the resources already committed
// anywhere in the system for one (daySlot, date).
type SlotUsage struct {
	Lecturers      map[string]struct{}
	LocationCounts map[string]int
}

// Tracker maintains the shared per-slot usage records. Commit is a plain
// read-modify-write; callers must run sequentially, one slot key at a time
// (the batch pipeline's single worker guarantees this).
type Tracker struct {
	store  usageRecordStore
	logger *zap.Logger
}

// NewTracker wires the tracker over a usage-record repository.
func NewTracker(store usageRecordStore, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{store: store, logger: logger}
}

// Snapshot returns the committed usage for a slot key, empty when no
// record exists yet.
func (t *Tracker) Snapshot(ctx context.Context, daySlot models.DaySlot, date string) (*SlotUsage, error) {
	usage := &SlotUsage{
		Lecturers:      make(map[string]struct{}),
		LocationCounts: make(map[string]int),
	}

	record, err := t.store.Get(ctx, models.SlotKey(daySlot, date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return usage, nil
		}
		return nil, fmt.Errorf("load usage record: %w", err)
	}

	for _, id := range record.LecturerIDs {
		usage.Lecturers[id] = struct{}{}
	}
	counts, err := record.DecodeLocationCounts()
	if err != nil {
		return nil, fmt.Errorf("decode location counts: %w", err)
	}
	usage.LocationCounts = counts

	return usage, nil
}

// Commit merges newly assigned lecturers and locations into the slot's
// usage record, unioning with any pre-existing record rather than
// overwriting it.
func (t *Tracker) Commit(ctx context.Context, daySlot models.DaySlot, date string, lecturerIDs, locationIDs []string) error {
	if len(lecturerIDs) == 0 && len(locationIDs) == 0 {
		return nil
	}

	current, err := t.Snapshot(ctx, daySlot, date)
	if err != nil {
		return err
	}

	for _, id := range lecturerIDs {
		current.Lecturers[id] = struct{}{}
	}
	for _, id := range locationIDs {
		current.LocationCounts[id]++
	}

	merged := make([]string, 0, len(current.Lecturers))
	for id := range current.Lecturers {
		merged = append(merged, id)
	}
	sort.Strings(merged)

	encoded, err := models.EncodeLocationCounts(current.LocationCounts)
	if err != nil {
		return fmt.Errorf("encode location counts: %w", err)
	}

	record := &models.UsageRecord{
		SlotKey:        models.SlotKey(daySlot, date),
		LecturerIDs:    merged,
		LocationCounts: encoded,
	}
	if err := t.store.Upsert(ctx, record); err != nil {
		return fmt.Errorf("upsert usage record: %w", err)
	}
	return nil
}

// Reset deletes every usage record. Used before a wholesale rebuild and
// when schedules are deleted.
func (t *Tracker) Reset(ctx context.Context) error {
	if err := t.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete usage records: %w", err)
	}
	return nil
}

// Rebuild recomputes every usage record from the given set of processed
// documents, replacing whatever was stored before.
func (t *Tracker) Rebuild(ctx context.Context, documents [][]models.ScheduleSession) error {
	if err := t.Reset(ctx); err != nil {
		return err
	}

	type slotAccum struct {
		daySlot   models.DaySlot
		date      string
		lecturers []string
		locations []string
	}
	accums := make(map[string]*slotAccum)
	var order []string

	for _, sessions := range documents {
		for i := range sessions {
			session := &sessions[i]
			if !session.IsTeaching() || (session.LecturerID == nil && session.LocationID == nil) {
				continue
			}
			key := session.SlotKey()
			accum, ok := accums[key]
			if !ok {
				accum = &slotAccum{daySlot: session.DaySlot, date: session.Date}
				accums[key] = accum
				order = append(order, key)
			}
			if session.LecturerID != nil {
				accum.lecturers = append(accum.lecturers, *session.LecturerID)
			}
			if session.LocationID != nil {
				accum.locations = append(accum.locations, *session.LocationID)
			}
		}
	}

	sort.Strings(order)
	for _, key := range order {
		accum := accums[key]
		if err := t.Commit(ctx, accum.daySlot, accum.date, accum.lecturers, accum.locations); err != nil {
			return err
		}
	}

	t.logger.Sugar().Infow("usage records rebuilt", "slots", len(order))
	return nil
}
