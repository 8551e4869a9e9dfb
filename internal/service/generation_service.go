package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/andrifar/lemdik-sched-api/internal/dto"
	"github.com/andrifar/lemdik-sched-api/internal/models"
	"github.com/andrifar/lemdik-sched-api/internal/scheduler"
	appErrors "github.com/andrifar/lemdik-sched-api/pkg/errors"
)

type generationCourseStore interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	UpdateStatus(ctx context.Context, id string, status models.CourseStatus) error
}

type generationTeamLister interface {
	List(ctx context.Context, filter models.TeamFilter) ([]models.Team, error)
}

type generationHolidayLister interface {
	ListBetween(ctx context.Context, start, end time.Time) ([]models.Holiday, error)
}

type pendingDocumentWriter interface {
	WritePending(teamID, filename string, data []byte) error
}

// GenerationService runs phase one: it enumerates the term calendar,
// sequences the subject pool per team, places subjects and breaks into
// slots and persists the result as pending weekly documents.
type GenerationService struct {
	courses  generationCourseStore
	teams    generationTeamLister
	subjects refSubjectLister
	holidays generationHolidayLister
	docs     pendingDocumentWriter
	validate *validator.Validate
	metrics  *MetricsService
	logger   *zap.Logger
	seed     int64
}

// NewGenerationService constructs the placement phase service.
func NewGenerationService(courses generationCourseStore, teams generationTeamLister, subjects refSubjectLister, holidays generationHolidayLister, docs pendingDocumentWriter, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, seed int64) *GenerationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerationService{
		courses:  courses,
		teams:    teams,
		subjects: subjects,
		holidays: holidays,
		docs:     docs,
		validate: validate,
		metrics:  metrics,
		logger:   logger,
		seed:     seed,
	}
}

// Generate builds and persists pending schedules for every team of the
// course, then flips the course status to scheduled.
func (s *GenerationService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generate request")
	}
	start, err := time.Parse(models.DateLayout, req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startDate must be yyyy-mm-dd")
	}
	end, err := time.Parse(models.DateLayout, req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must be yyyy-mm-dd")
	}
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate precedes startDate")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, fmt.Errorf("load course: %w", err)
	}

	holidays, err := s.holidays.ListBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load holidays: %w", err)
	}
	slots := scheduler.EnumerateSlots(start, end, scheduler.HolidaySet(holidays))
	if len(slots) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "term contains no teaching slots")
	}

	pool, err := s.subjects.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load subjects: %w", err)
	}
	teams, err := s.teams.List(ctx, models.TeamFilter{CourseID: course.ID})
	if err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}
	if len(teams) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "course has no teams")
	}

	rng := scheduler.NewRand(s.seed)
	resp := &dto.GenerateScheduleResponse{CourseID: course.ID, TotalSlots: len(slots)}

	for _, team := range teams {
		summary, err := s.generateTeam(team, slots, pool, rng)
		if err != nil {
			return nil, fmt.Errorf("generate team %s: %w", team.ID, err)
		}
		s.metrics.CountGeneratedTeam()
		resp.Teams = append(resp.Teams, *summary)
	}

	if err := s.courses.UpdateStatus(ctx, course.ID, models.CourseStatusScheduled); err != nil {
		return nil, err
	}
	s.logger.Sugar().Infow("course schedule generated",
		"course_id", course.ID, "teams", len(teams), "slots", len(slots))
	return resp, nil
}

func (s *GenerationService) generateTeam(team models.Team, slots []scheduler.Slot, pool []models.Subject, rng *rand.Rand) (*dto.TeamScheduleSummary, error) {
	queue := scheduler.SequenceSubjects(pool, rng)
	budget := scheduler.BreaksNeeded(len(slots), len(queue))
	sessions := scheduler.PlaceSubjects(team.ID, slots, queue, budget)

	summary := &dto.TeamScheduleSummary{TeamID: team.ID}
	for i := range sessions {
		switch {
		case sessions[i].IsBreak():
			summary.Breaks++
		case sessions[i].IsTeaching():
			summary.Subjects++
		}
	}

	weeks := scheduler.GroupByWeek(sessions)
	for _, week := range sortedWeeks(weeks) {
		data, err := json.MarshalIndent(weeks[week], "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode week %d: %w", week, err)
		}
		if err := s.docs.WritePending(team.ID, weekFilename(week), data); err != nil {
			return nil, err
		}
		summary.Documents++
	}
	summary.Weeks = len(weeks)
	return summary, nil
}

func weekFilename(week int) string {
	return fmt.Sprintf("week_%02d.json", week)
}

func sortedWeeks(weeks map[int][]models.ScheduleSession) []int {
	keys := make([]int, 0, len(weeks))
	for week := range weeks {
		keys = append(keys, week)
	}
	sort.Ints(keys)
	return keys
}
