package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/andrifar/lemdik-sched-api/internal/dto"
	"github.com/andrifar/lemdik-sched-api/internal/models"
	"github.com/andrifar/lemdik-sched-api/internal/scheduler"
	appErrors "github.com/andrifar/lemdik-sched-api/pkg/errors"
)

type documentStore interface {
	PendingTeams() ([]string, error)
	PendingDocuments(teamID string) ([]string, error)
	ReadPending(teamID, filename string) ([]byte, error)
	MoveToDone(teamID, filename string, data []byte) error
	DoneTeams() ([]string, error)
	DoneDocuments(teamID string) ([]string, error)
	ReadDone(teamID, filename string) ([]byte, error)
	RemoveTeam(teamID string) error
}

type referenceLoader interface {
	Load(ctx context.Context) (*scheduler.ReferenceSet, error)
}

type batchCourseStore interface {
	UpdateStatus(ctx context.Context, id string, status models.CourseStatus) error
}

type batchTeamStore interface {
	FindByID(ctx context.Context, id string) (*models.Team, error)
	List(ctx context.Context, filter models.TeamFilter) ([]models.Team, error)
}

type usageRecordLister interface {
	ListAll(ctx context.Context) ([]models.UsageRecord, error)
}

// BatchService runs phase two: it walks the pending document area,
// assigns lecturers and locations per document and moves completed
// documents to the done area. A document that fails is recorded in the
// batch result and stays pending; only setup failures abort a run.
type BatchService struct {
	docs     documentStore
	refdata  referenceLoader
	tracker  *scheduler.Tracker
	courses  batchCourseStore
	teams    batchTeamStore
	usage    usageRecordLister
	validate *validator.Validate
	metrics  *MetricsService
	logger   *zap.Logger
	seed     int64

	mu      sync.Mutex
	running bool
}

// NewBatchService constructs the assignment batch service.
func NewBatchService(docs documentStore, refdata referenceLoader, tracker *scheduler.Tracker, courses batchCourseStore, teams batchTeamStore, usage usageRecordLister, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, seed int64) *BatchService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchService{
		docs:     docs,
		refdata:  refdata,
		tracker:  tracker,
		courses:  courses,
		teams:    teams,
		usage:    usage,
		validate: validate,
		metrics:  metrics,
		logger:   logger,
		seed:     seed,
	}
}

// Run executes one full batch over the pending area and returns the
// structured result. Concurrent runs are rejected.
func (s *BatchService) Run(ctx context.Context) (*models.BatchResult, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, appErrors.ErrBatchRunning
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	start := time.Now()
	result := &models.BatchResult{
		ProcessedFiles: []models.ProcessedFile{},
		Errors:         []models.BatchError{},
	}

	refs, err := s.refdata.Load(ctx)
	if err != nil {
		s.metrics.ObserveBatchRun("failed", time.Since(start))
		return nil, fmt.Errorf("load reference data: %w", err)
	}
	assigner := scheduler.NewAssigner(refs, s.tracker, scheduler.NewRand(s.seed), s.logger)

	teamIDs, err := s.docs.PendingTeams()
	if err != nil {
		s.metrics.ObserveBatchRun("failed", time.Since(start))
		return nil, err
	}

	processedTeams := make(map[string]struct{})
	for _, teamID := range teamIDs {
		files, err := s.docs.PendingDocuments(teamID)
		if err != nil {
			s.metrics.ObserveBatchRun("failed", time.Since(start))
			return nil, err
		}
		teamClean := true
		for _, filename := range files {
			if err := s.processDocument(ctx, assigner, teamID, filename); err != nil {
				teamClean = false
				s.metrics.CountBatchDocument("failed")
				s.logger.Sugar().Errorw("document failed",
					"team_id", teamID, "filename", filename, "error", err)
				result.Errors = append(result.Errors, models.BatchError{
					TeamID: teamID, Filename: filename, Message: err.Error(),
				})
				continue
			}
			s.metrics.CountBatchDocument("processed")
			result.ProcessedFiles = append(result.ProcessedFiles, models.ProcessedFile{
				TeamID: teamID, Filename: filename,
			})
		}
		if teamClean {
			processedTeams[teamID] = struct{}{}
		}
	}

	s.markCoursesDone(ctx, processedTeams)
	s.metrics.ObserveBatchRun("completed", time.Since(start))
	s.logger.Sugar().Infow("batch run finished",
		"processed", len(result.ProcessedFiles), "errors", len(result.Errors),
		"duration", time.Since(start))
	return result, nil
}

func (s *BatchService) processDocument(ctx context.Context, assigner *scheduler.Assigner, teamID, filename string) error {
	raw, err := s.docs.ReadPending(teamID, filename)
	if err != nil {
		return err
	}
	var records []dto.SessionRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return fmt.Errorf("parse document: %w", err)
	}

	sessions := make([]*models.ScheduleSession, 0, len(records))
	for i, record := range records {
		if err := s.validate.Struct(record); err != nil {
			s.logger.Sugar().Warnw("dropping invalid session record",
				"team_id", teamID, "filename", filename, "index", i, "error", err)
			continue
		}
		sessions = append(sessions, recordToSession(record))
	}

	if err := assigner.AssignDocument(ctx, sessions); err != nil {
		return err
	}

	data, err := json.MarshalIndent(sessionsToRecords(sessions), "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return s.docs.MoveToDone(teamID, filename, data)
}

// markCoursesDone flips the status of every course whose teams all came
// through the run without a pending document left behind. Callback
// failures are logged, never fatal.
func (s *BatchService) markCoursesDone(ctx context.Context, processedTeams map[string]struct{}) {
	courseIDs := make(map[string]struct{})
	for teamID := range processedTeams {
		team, err := s.teams.FindByID(ctx, teamID)
		if err != nil {
			s.logger.Sugar().Warnw("course callback: team lookup failed", "team_id", teamID, "error", err)
			continue
		}
		courseIDs[team.CourseID] = struct{}{}
	}

	for courseID := range courseIDs {
		teams, err := s.teams.List(ctx, models.TeamFilter{CourseID: courseID})
		if err != nil {
			s.logger.Sugar().Warnw("course callback: team list failed", "course_id", courseID, "error", err)
			continue
		}
		clean := true
		for _, team := range teams {
			files, err := s.docs.PendingDocuments(team.ID)
			if err != nil || len(files) > 0 {
				clean = false
				break
			}
		}
		if !clean {
			continue
		}
		if err := s.courses.UpdateStatus(ctx, courseID, models.CourseStatusDone); err != nil {
			s.logger.Sugar().Warnw("course callback: status update failed", "course_id", courseID, "error", err)
			continue
		}
		s.logger.Sugar().Infow("course marked done", "course_id", courseID)
	}
}

// DeleteCourseSchedules removes every document of the course's teams,
// wipes the usage aggregate and rebuilds it from the documents that
// remain in the done area, then returns the course to draft.
func (s *BatchService) DeleteCourseSchedules(ctx context.Context, courseID string) error {
	teams, err := s.teams.List(ctx, models.TeamFilter{CourseID: courseID})
	if err != nil {
		return fmt.Errorf("load course teams: %w", err)
	}
	if len(teams) == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "course has no teams")
	}
	for _, team := range teams {
		if err := s.docs.RemoveTeam(team.ID); err != nil {
			return err
		}
	}

	remaining, err := s.doneSessionDocuments()
	if err != nil {
		return err
	}
	if err := s.tracker.Rebuild(ctx, remaining); err != nil {
		return err
	}
	if err := s.courses.UpdateStatus(ctx, courseID, models.CourseStatusDraft); err != nil {
		return err
	}
	s.logger.Sugar().Infow("course schedules deleted", "course_id", courseID, "teams", len(teams))
	return nil
}

// TeamSchedule returns the processed documents for one team.
func (s *BatchService) TeamSchedule(ctx context.Context, teamID string) (*dto.TeamScheduleResponse, error) {
	if _, err := s.teams.FindByID(ctx, teamID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "team not found")
		}
		return nil, fmt.Errorf("load team: %w", err)
	}

	files, err := s.docs.DoneDocuments(teamID)
	if err != nil {
		return nil, err
	}
	resp := &dto.TeamScheduleResponse{TeamID: teamID, Documents: []dto.WeeklyDocument{}}
	for _, filename := range files {
		raw, err := s.docs.ReadDone(teamID, filename)
		if err != nil {
			return nil, err
		}
		var records []dto.SessionRecord
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("parse document %s: %w", filename, err)
		}
		resp.Documents = append(resp.Documents, dto.WeeklyDocument{Name: filename, Sessions: records})
	}
	return resp, nil
}

// UsageRecords returns the current usage aggregate for diagnostics.
func (s *BatchService) UsageRecords(ctx context.Context) ([]dto.UsageRecordView, error) {
	records, err := s.usage.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]dto.UsageRecordView, 0, len(records))
	for _, record := range records {
		counts, err := record.DecodeLocationCounts()
		if err != nil {
			return nil, fmt.Errorf("decode usage record %s: %w", record.SlotKey, err)
		}
		views = append(views, dto.UsageRecordView{
			SlotKey:        record.SlotKey,
			LecturerIDs:    record.LecturerIDs,
			LocationCounts: counts,
		})
	}
	return views, nil
}

// doneSessionDocuments loads every document in the done area as session
// lists for a tracker rebuild.
func (s *BatchService) doneSessionDocuments() ([][]models.ScheduleSession, error) {
	teamIDs, err := s.docs.DoneTeams()
	if err != nil {
		return nil, err
	}
	var documents [][]models.ScheduleSession
	for _, teamID := range teamIDs {
		files, err := s.docs.DoneDocuments(teamID)
		if err != nil {
			return nil, err
		}
		for _, filename := range files {
			raw, err := s.docs.ReadDone(teamID, filename)
			if err != nil {
				return nil, err
			}
			var sessions []models.ScheduleSession
			if err := json.Unmarshal(raw, &sessions); err != nil {
				return nil, fmt.Errorf("parse document %s: %w", filename, err)
			}
			documents = append(documents, sessions)
		}
	}
	return documents, nil
}

func recordToSession(record dto.SessionRecord) *models.ScheduleSession {
	return &models.ScheduleSession{
		Week:       record.Week,
		TeamID:     record.TeamID,
		SubjectID:  record.SubjectID,
		Date:       record.Date,
		DayOfWeek:  record.DayOfWeek,
		DaySlot:    models.DaySlot(record.DaySlot),
		LecturerID: record.LecturerID,
		LocationID: record.LocationID,
	}
}

func sessionsToRecords(sessions []*models.ScheduleSession) []dto.SessionRecord {
	records := make([]dto.SessionRecord, 0, len(sessions))
	for _, session := range sessions {
		records = append(records, dto.SessionRecord{
			Week:       session.Week,
			TeamID:     session.TeamID,
			SubjectID:  session.SubjectID,
			Date:       session.Date,
			DayOfWeek:  session.DayOfWeek,
			DaySlot:    string(session.DaySlot),
			LecturerID: session.LecturerID,
			LocationID: session.LocationID,
		})
	}
	return records
}
