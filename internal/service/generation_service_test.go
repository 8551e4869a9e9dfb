package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andrifar/lemdik-sched-api/internal/dto"
	"github.com/andrifar/lemdik-sched-api/internal/models"
	"github.com/andrifar/lemdik-sched-api/pkg/docstore"
	appErrors "github.com/andrifar/lemdik-sched-api/pkg/errors"
)

type stubCourseStore struct {
	courses  map[string]*models.Course
	statuses map[string]models.CourseStatus
}

func newStubCourseStore(courses ...*models.Course) *stubCourseStore {
	s := &stubCourseStore{
		courses:  make(map[string]*models.Course),
		statuses: make(map[string]models.CourseStatus),
	}
	for _, course := range courses {
		s.courses[course.ID] = course
	}
	return s
}

func (s *stubCourseStore) FindByID(ctx context.Context, id string) (*models.Course, error) {
	course, ok := s.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return course, nil
}

func (s *stubCourseStore) UpdateStatus(ctx context.Context, id string, status models.CourseStatus) error {
	s.statuses[id] = status
	return nil
}

type stubTeamStore struct {
	teams []models.Team
}

func (s *stubTeamStore) List(ctx context.Context, filter models.TeamFilter) ([]models.Team, error) {
	var out []models.Team
	for _, team := range s.teams {
		if filter.CourseID != "" && team.CourseID != filter.CourseID {
			continue
		}
		out = append(out, team)
	}
	return out, nil
}

func (s *stubTeamStore) FindByID(ctx context.Context, id string) (*models.Team, error) {
	for _, team := range s.teams {
		if team.ID == id {
			t := team
			return &t, nil
		}
	}
	return nil, sql.ErrNoRows
}

type stubSubjectLister struct {
	subjects []models.Subject
}

func (s *stubSubjectLister) ListAll(ctx context.Context) ([]models.Subject, error) {
	return s.subjects, nil
}

type stubHolidayLister struct {
	holidays []models.Holiday
}

func (s *stubHolidayLister) ListBetween(ctx context.Context, start, end time.Time) ([]models.Holiday, error) {
	return s.holidays, nil
}

func newTestDocstore(t *testing.T) *docstore.Store {
	t.Helper()
	dir := t.TempDir()
	store, err := docstore.New(dir+"/pending", dir+"/done")
	require.NoError(t, err)
	return store
}

func TestGenerationServiceGenerate(t *testing.T) {
	courses := newStubCourseStore(&models.Course{ID: "course-1", Status: models.CourseStatusDraft})
	teams := &stubTeamStore{teams: []models.Team{
		{ID: "team-1", CourseID: "course-1"},
		{ID: "team-2", CourseID: "course-1"},
	}}
	subjects := &stubSubjectLister{subjects: []models.Subject{
		{ID: "law", Category: models.CategoryCivic},
		{ID: "drill", Category: models.CategoryMilitary},
	}}
	store := newTestDocstore(t)

	svc := NewGenerationService(courses, teams, subjects, &stubHolidayLister{}, store, validator.New(), nil, zap.NewNop(), 42)

	resp, err := svc.Generate(context.Background(), dto.GenerateScheduleRequest{
		CourseID:  "course-1",
		StartDate: "2026-01-05",
		EndDate:   "2026-01-10",
	})
	require.NoError(t, err)
	require.Len(t, resp.Teams, 2)
	assert.Equal(t, 18, resp.TotalSlots)

	for _, summary := range resp.Teams {
		assert.Equal(t, 2, summary.Subjects)
		assert.Equal(t, 16, summary.Breaks)
		assert.Equal(t, 1, summary.Documents)
	}
	assert.Equal(t, models.CourseStatusScheduled, courses.statuses["course-1"])

	files, err := store.PendingDocuments("team-1")
	require.NoError(t, err)
	require.Equal(t, []string{"week_01.json"}, files)

	raw, err := store.ReadPending("team-1", "week_01.json")
	require.NoError(t, err)
	var sessions []models.ScheduleSession
	require.NoError(t, json.Unmarshal(raw, &sessions))
	assert.Len(t, sessions, 18)
	for _, session := range sessions {
		assert.Nil(t, session.LecturerID)
		assert.Nil(t, session.LocationID)
	}
}

func TestGenerationServiceGenerateSplitsWeeks(t *testing.T) {
	courses := newStubCourseStore(&models.Course{ID: "course-1"})
	teams := &stubTeamStore{teams: []models.Team{{ID: "team-1", CourseID: "course-1"}}}
	subjects := &stubSubjectLister{subjects: []models.Subject{{ID: "law", Category: models.CategoryCivic}}}
	store := newTestDocstore(t)

	svc := NewGenerationService(courses, teams, subjects, &stubHolidayLister{}, store, validator.New(), nil, zap.NewNop(), 1)

	// Wednesday through the following Tuesday spans two schedule weeks.
	resp, err := svc.Generate(context.Background(), dto.GenerateScheduleRequest{
		CourseID:  "course-1",
		StartDate: "2026-01-07",
		EndDate:   "2026-01-13",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Teams[0].Weeks)

	files, err := store.PendingDocuments("team-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"week_01.json", "week_02.json"}, files)
}

func TestGenerationServiceRejectsUnknownCourse(t *testing.T) {
	svc := NewGenerationService(newStubCourseStore(), &stubTeamStore{}, &stubSubjectLister{}, &stubHolidayLister{}, newTestDocstore(t), validator.New(), nil, zap.NewNop(), 1)

	_, err := svc.Generate(context.Background(), dto.GenerateScheduleRequest{
		CourseID:  "ghost",
		StartDate: "2026-01-05",
		EndDate:   "2026-01-10",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestGenerationServiceRejectsInvertedRange(t *testing.T) {
	courses := newStubCourseStore(&models.Course{ID: "course-1"})
	svc := NewGenerationService(courses, &stubTeamStore{}, &stubSubjectLister{}, &stubHolidayLister{}, newTestDocstore(t), validator.New(), nil, zap.NewNop(), 1)

	_, err := svc.Generate(context.Background(), dto.GenerateScheduleRequest{
		CourseID:  "course-1",
		StartDate: "2026-01-10",
		EndDate:   "2026-01-05",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
