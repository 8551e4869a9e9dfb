package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andrifar/lemdik-sched-api/internal/models"
)

type memoryUsageStore struct {
	records   map[string]*models.UsageRecord
	upsertErr error
}

func newMemoryUsageStore() *memoryUsageStore {
	return &memoryUsageStore{records: make(map[string]*models.UsageRecord)}
}

func (m *memoryUsageStore) Get(ctx context.Context, slotKey string) (*models.UsageRecord, error) {
	record, ok := m.records[slotKey]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *record
	return &cp, nil
}

func (m *memoryUsageStore) Upsert(ctx context.Context, record *models.UsageRecord) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	cp := *record
	m.records[record.SlotKey] = &cp
	return nil
}

func (m *memoryUsageStore) DeleteAll(ctx context.Context) error {
	m.records = make(map[string]*models.UsageRecord)
	return nil
}

func TestTrackerSnapshotEmpty(t *testing.T) {
	tracker := NewTracker(newMemoryUsageStore(), zap.NewNop())

	usage, err := tracker.Snapshot(context.Background(), models.DaySlotMorning, "2026-01-05")
	require.NoError(t, err)
	assert.Empty(t, usage.Lecturers)
	assert.Empty(t, usage.LocationCounts)
}

func TestTrackerCommitMergesWithExisting(t *testing.T) {
	store := newMemoryUsageStore()
	tracker := NewTracker(store, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, tracker.Commit(ctx, models.DaySlotMorning, "2026-01-05", []string{"lec-1"}, []string{"room-1"}))
	require.NoError(t, tracker.Commit(ctx, models.DaySlotMorning, "2026-01-05", []string{"lec-2"}, []string{"room-1", "room-2"}))

	usage, err := tracker.Snapshot(ctx, models.DaySlotMorning, "2026-01-05")
	require.NoError(t, err)
	assert.Contains(t, usage.Lecturers, "lec-1")
	assert.Contains(t, usage.Lecturers, "lec-2")
	assert.Equal(t, 2, usage.LocationCounts["room-1"])
	assert.Equal(t, 1, usage.LocationCounts["room-2"])
}

func TestTrackerCommitKeysAreIndependent(t *testing.T) {
	tracker := NewTracker(newMemoryUsageStore(), zap.NewNop())
	ctx := context.Background()

	require.NoError(t, tracker.Commit(ctx, models.DaySlotMorning, "2026-01-05", []string{"lec-1"}, nil))

	afternoon, err := tracker.Snapshot(ctx, models.DaySlotAfternoon, "2026-01-05")
	require.NoError(t, err)
	assert.Empty(t, afternoon.Lecturers)
}

func TestTrackerCommitSurfacesUpsertFailure(t *testing.T) {
	store := newMemoryUsageStore()
	store.upsertErr = errors.New("connection reset")
	tracker := NewTracker(store, zap.NewNop())

	err := tracker.Commit(context.Background(), models.DaySlotMorning, "2026-01-05", []string{"lec-1"}, nil)
	require.Error(t, err)
}

func TestTrackerRebuild(t *testing.T) {
	store := newMemoryUsageStore()
	tracker := NewTracker(store, zap.NewNop())
	ctx := context.Background()

	// Pre-existing garbage that the rebuild must discard.
	require.NoError(t, tracker.Commit(ctx, models.DaySlotEvening, "2026-02-01", []string{"stale"}, nil))

	lec := "lec-1"
	loc := "room-1"
	subj := "subj-1"
	docs := [][]models.ScheduleSession{
		{
			{Week: 1, TeamID: "team-1", SubjectID: &subj, Date: "2026-01-05", DayOfWeek: "Mon", DaySlot: models.DaySlotMorning, LecturerID: &lec, LocationID: &loc},
		},
	}
	require.NoError(t, tracker.Rebuild(ctx, docs))

	stale, err := tracker.Snapshot(ctx, models.DaySlotEvening, "2026-02-01")
	require.NoError(t, err)
	assert.Empty(t, stale.Lecturers)

	usage, err := tracker.Snapshot(ctx, models.DaySlotMorning, "2026-01-05")
	require.NoError(t, err)
	assert.Contains(t, usage.Lecturers, "lec-1")
	assert.Equal(t, 1, usage.LocationCounts["room-1"])
}
