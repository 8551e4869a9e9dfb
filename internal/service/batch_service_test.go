package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andrifar/lemdik-sched-api/internal/dto"
	"github.com/andrifar/lemdik-sched-api/internal/models"
	"github.com/andrifar/lemdik-sched-api/internal/scheduler"
	"github.com/andrifar/lemdik-sched-api/pkg/docstore"
)

type memUsageStore struct {
	records map[string]*models.UsageRecord
}

func newMemUsageStore() *memUsageStore {
	return &memUsageStore{records: make(map[string]*models.UsageRecord)}
}

func (m *memUsageStore) Get(ctx context.Context, slotKey string) (*models.UsageRecord, error) {
	record, ok := m.records[slotKey]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *record
	return &cp, nil
}

func (m *memUsageStore) Upsert(ctx context.Context, record *models.UsageRecord) error {
	cp := *record
	m.records[record.SlotKey] = &cp
	return nil
}

func (m *memUsageStore) DeleteAll(ctx context.Context) error {
	m.records = make(map[string]*models.UsageRecord)
	return nil
}

func (m *memUsageStore) ListAll(ctx context.Context) ([]models.UsageRecord, error) {
	out := make([]models.UsageRecord, 0, len(m.records))
	for _, record := range m.records {
		out = append(out, *record)
	}
	return out, nil
}

type stubRefLoader struct {
	refs *scheduler.ReferenceSet
}

func (s *stubRefLoader) Load(ctx context.Context) (*scheduler.ReferenceSet, error) {
	return s.refs, nil
}

func batchRefs() *scheduler.ReferenceSet {
	return &scheduler.ReferenceSet{
		Subjects: map[string]models.Subject{
			"law":   {ID: "law", Category: models.CategoryCivic},
			"drill": {ID: "drill", Category: models.CategoryMilitary},
		},
		Lecturers: []models.Lecturer{
			{ID: "lec-civ", Faculty: models.CategoryCivic, MaxSessionsPerWeek: 10},
			{ID: "lec-mil", Faculty: models.CategoryMilitary, MaxSessionsPerWeek: 10},
		},
		Locations: []models.Location{
			{ID: "hall", Capacity: 5},
			{ID: "class", Capacity: 5},
		},
	}
}

func pendingDocument(t *testing.T, store *docstore.Store, teamID, filename string, records []dto.SessionRecord) {
	t.Helper()
	data, err := json.Marshal(records)
	require.NoError(t, err)
	require.NoError(t, store.WritePending(teamID, filename, data))
}

func weekRecords(teamID string) []dto.SessionRecord {
	law := "law"
	drill := "drill"
	brk := models.BreakSubjectID
	return []dto.SessionRecord{
		{Week: 1, TeamID: teamID, SubjectID: &law, Date: "2026-01-05", DayOfWeek: "Mon", DaySlot: "morning"},
		{Week: 1, TeamID: teamID, SubjectID: &drill, Date: "2026-01-05", DayOfWeek: "Mon", DaySlot: "afternoon"},
		{Week: 1, TeamID: teamID, SubjectID: &brk, Date: "2026-01-05", DayOfWeek: "Mon", DaySlot: "evening"},
	}
}

func newBatchService(t *testing.T, store *docstore.Store, usage *memUsageStore, courses *stubCourseStore, teams *stubTeamStore) *BatchService {
	t.Helper()
	tracker := scheduler.NewTracker(usage, zap.NewNop())
	return NewBatchService(store, &stubRefLoader{refs: batchRefs()}, tracker, courses, teams, usage, validator.New(), nil, zap.NewNop(), 42)
}

func TestBatchRunProcessesPendingDocuments(t *testing.T) {
	store := newTestDocstore(t)
	usage := newMemUsageStore()
	courses := newStubCourseStore(&models.Course{ID: "course-1"})
	teams := &stubTeamStore{teams: []models.Team{{ID: "team-1", CourseID: "course-1"}}}
	svc := newBatchService(t, store, usage, courses, teams)

	pendingDocument(t, store, "team-1", "week_01.json", weekRecords("team-1"))

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.ProcessedFiles, 1)
	assert.Empty(t, result.Errors)

	pending, err := store.PendingDocuments("team-1")
	require.NoError(t, err)
	assert.Empty(t, pending)

	raw, err := store.ReadDone("team-1", "week_01.json")
	require.NoError(t, err)
	var records []dto.SessionRecord
	require.NoError(t, json.Unmarshal(raw, &records))
	require.Len(t, records, 3)
	for _, record := range records {
		if record.SubjectID != nil && *record.SubjectID != models.BreakSubjectID {
			assert.NotNil(t, record.LecturerID, "teaching record %s missing lecturer", *record.SubjectID)
			assert.NotNil(t, record.LocationID, "teaching record %s missing location", *record.SubjectID)
		}
	}

	// All pending work cleared, so the course callback fires.
	assert.Equal(t, models.CourseStatusDone, courses.statuses["course-1"])
}

func TestBatchRunIsolatesMalformedDocument(t *testing.T) {
	store := newTestDocstore(t)
	usage := newMemUsageStore()
	courses := newStubCourseStore(&models.Course{ID: "course-1"})
	teams := &stubTeamStore{teams: []models.Team{
		{ID: "team-a", CourseID: "course-1"},
		{ID: "team-b", CourseID: "course-1"},
		{ID: "team-c", CourseID: "course-1"},
	}}
	svc := newBatchService(t, store, usage, courses, teams)

	pendingDocument(t, store, "team-a", "week_01.json", weekRecords("team-a"))
	require.NoError(t, store.WritePending("team-b", "week_01.json", []byte("{not json")))
	pendingDocument(t, store, "team-c", "week_01.json", weekRecords("team-c"))

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.ProcessedFiles, 2)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "team-b", result.Errors[0].TeamID)
	assert.Equal(t, "week_01.json", result.Errors[0].Filename)

	// The failed document stays pending; the others moved on.
	pendingB, err := store.PendingDocuments("team-b")
	require.NoError(t, err)
	assert.Equal(t, []string{"week_01.json"}, pendingB)

	doneA, err := store.DoneDocuments("team-a")
	require.NoError(t, err)
	assert.Equal(t, []string{"week_01.json"}, doneA)

	// One team still pending keeps the course open.
	assert.NotEqual(t, models.CourseStatusDone, courses.statuses["course-1"])
}

func TestBatchRunDropsInvalidRecords(t *testing.T) {
	store := newTestDocstore(t)
	usage := newMemUsageStore()
	courses := newStubCourseStore(&models.Course{ID: "course-1"})
	teams := &stubTeamStore{teams: []models.Team{{ID: "team-1", CourseID: "course-1"}}}
	svc := newBatchService(t, store, usage, courses, teams)

	law := "law"
	records := []dto.SessionRecord{
		{Week: 1, TeamID: "team-1", SubjectID: &law, Date: "2026-01-05", DayOfWeek: "Mon", DaySlot: "morning"},
		{Week: 1, TeamID: "team-1", SubjectID: &law, Date: "not-a-date", DayOfWeek: "Mon", DaySlot: "morning"},
		{Week: 1, TeamID: "team-1", SubjectID: &law, Date: "2026-01-05", DayOfWeek: "Mon", DaySlot: "midnight"},
	}
	pendingDocument(t, store, "team-1", "week_01.json", records)

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.ProcessedFiles, 1)
	assert.Empty(t, result.Errors)

	raw, err := store.ReadDone("team-1", "week_01.json")
	require.NoError(t, err)
	var kept []dto.SessionRecord
	require.NoError(t, json.Unmarshal(raw, &kept))
	assert.Len(t, kept, 1)
}

func TestBatchRunSharesUsageAcrossTeams(t *testing.T) {
	store := newTestDocstore(t)
	usage := newMemUsageStore()
	courses := newStubCourseStore(&models.Course{ID: "course-1"})
	teams := &stubTeamStore{teams: []models.Team{
		{ID: "team-a", CourseID: "course-1"},
		{ID: "team-b", CourseID: "course-1"},
	}}
	svc := newBatchService(t, store, usage, courses, teams)

	law := "law"
	record := func(team string) []dto.SessionRecord {
		return []dto.SessionRecord{
			{Week: 1, TeamID: team, SubjectID: &law, Date: "2026-01-05", DayOfWeek: "Mon", DaySlot: "morning"},
		}
	}
	pendingDocument(t, store, "team-a", "week_01.json", record("team-a"))
	pendingDocument(t, store, "team-b", "week_01.json", record("team-b"))

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.ProcessedFiles, 2)

	// One civic lecturer exists: whoever went second must have missed out.
	var lecturers []*string
	for _, team := range []string{"team-a", "team-b"} {
		raw, err := store.ReadDone(team, "week_01.json")
		require.NoError(t, err)
		var records []dto.SessionRecord
		require.NoError(t, json.Unmarshal(raw, &records))
		lecturers = append(lecturers, records[0].LecturerID)
	}
	assigned := 0
	for _, id := range lecturers {
		if id != nil {
			assigned++
		}
	}
	assert.Equal(t, 1, assigned)
}

func TestBatchDeleteCourseSchedulesRebuildsUsage(t *testing.T) {
	store := newTestDocstore(t)
	usage := newMemUsageStore()
	courses := newStubCourseStore(&models.Course{ID: "course-1"}, &models.Course{ID: "course-2"})
	teams := &stubTeamStore{teams: []models.Team{
		{ID: "team-a", CourseID: "course-1"},
		{ID: "team-b", CourseID: "course-2"},
	}}
	svc := newBatchService(t, store, usage, courses, teams)

	pendingDocument(t, store, "team-a", "week_01.json", weekRecords("team-a"))
	pendingDocument(t, store, "team-b", "week_01.json", weekRecords("team-b"))
	_, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, usage.records)

	require.NoError(t, svc.DeleteCourseSchedules(context.Background(), "course-1"))

	// team-a's documents are gone from both areas.
	doneA, err := store.DoneDocuments("team-a")
	require.NoError(t, err)
	assert.Empty(t, doneA)

	// The aggregate only reflects team-b's surviving documents now.
	views, err := svc.UsageRecords(context.Background())
	require.NoError(t, err)
	for _, view := range views {
		for _, id := range view.LecturerIDs {
			assert.NotEmpty(t, id)
		}
		total := 0
		for _, count := range view.LocationCounts {
			total += count
		}
		assert.LessOrEqual(t, total, 1, "slot %s counts more than one surviving use", view.SlotKey)
	}
	assert.Equal(t, models.CourseStatusDraft, courses.statuses["course-1"])
}

func TestBatchTeamSchedule(t *testing.T) {
	store := newTestDocstore(t)
	usage := newMemUsageStore()
	courses := newStubCourseStore(&models.Course{ID: "course-1"})
	teams := &stubTeamStore{teams: []models.Team{{ID: "team-1", CourseID: "course-1"}}}
	svc := newBatchService(t, store, usage, courses, teams)

	pendingDocument(t, store, "team-1", "week_01.json", weekRecords("team-1"))
	_, err := svc.Run(context.Background())
	require.NoError(t, err)

	resp, err := svc.TeamSchedule(context.Background(), "team-1")
	require.NoError(t, err)
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "week_01.json", resp.Documents[0].Name)
	assert.Len(t, resp.Documents[0].Sessions, 3)

	_, err = svc.TeamSchedule(context.Background(), "ghost")
	require.Error(t, err)
}
