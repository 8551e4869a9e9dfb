package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/andrifar/lemdik-sched-api/internal/dto"
	"github.com/andrifar/lemdik-sched-api/internal/models"
	appErrors "github.com/andrifar/lemdik-sched-api/pkg/errors"
	"github.com/andrifar/lemdik-sched-api/pkg/jobs"
	"github.com/andrifar/lemdik-sched-api/pkg/response"
)

type generationService interface {
	Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error)
}

type batchService interface {
	Run(ctx context.Context) (*models.BatchResult, error)
	TeamSchedule(ctx context.Context, teamID string) (*dto.TeamScheduleResponse, error)
	DeleteCourseSchedules(ctx context.Context, courseID string) error
	UsageRecords(ctx context.Context) ([]dto.UsageRecordView, error)
}

// ScheduleHandler exposes the two scheduling phases over HTTP.
type ScheduleHandler struct {
	generation generationService
	batch      batchService
	queue      *jobs.Queue
}

// NewScheduleHandler constructs the handler. queue may be nil, in which
// case assignment always runs inline.
func NewScheduleHandler(generation generationService, batch batchService, queue *jobs.Queue) *ScheduleHandler {
	return &ScheduleHandler{generation: generation, batch: batch, queue: queue}
}

// Generate godoc
// @Summary Generate term schedules for a course
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Generation parameters"
// @Success 201 {object} response.Envelope
// @Router /schedules/generate [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	if h.generation == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "generation service not configured"))
		return
	}
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid generate payload"))
		return
	}
	resp, err := h.generation.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// Assign godoc
// @Summary Run the resource assignment batch
// @Tags Schedules
// @Produce json
// @Param wait query bool false "Run inline and return the batch result"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Router /schedules/assign [post]
func (h *ScheduleHandler) Assign(c *gin.Context) {
	if h.batch == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "batch service not configured"))
		return
	}
	if c.Query("wait") == "true" || h.queue == nil {
		result, err := h.batch.Run(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, result)
		return
	}

	job := jobs.Job{
		ID:       uuid.NewString(),
		Type:     "assign-batch",
		Enqueued: time.Now().UTC(),
	}
	if err := h.queue.Enqueue(job); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue batch"))
		return
	}
	response.Accepted(c, dto.BatchJobResponse{JobID: job.ID, Status: "queued"})
}

// TeamSchedule godoc
// @Summary Fetch the processed schedule documents for a team
// @Tags Schedules
// @Produce json
// @Param teamId path string true "Team ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{teamId} [get]
func (h *ScheduleHandler) TeamSchedule(c *gin.Context) {
	if h.batch == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "batch service not configured"))
		return
	}
	teamID := c.Param("teamId")
	if teamID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "teamId is required"))
		return
	}
	resp, err := h.batch.TeamSchedule(c.Request.Context(), teamID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Delete godoc
// @Summary Delete a course's schedules and rebuild usage
// @Tags Schedules
// @Produce json
// @Param courseId query string true "Course ID"
// @Success 204
// @Router /schedules [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if h.batch == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "batch service not configured"))
		return
	}
	courseID := c.Query("courseId")
	if courseID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "courseId is required"))
		return
	}
	if err := h.batch.DeleteCourseSchedules(c.Request.Context(), courseID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UsageRecords godoc
// @Summary List the current per-slot usage aggregate
// @Tags Schedules
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /usage-records [get]
func (h *ScheduleHandler) UsageRecords(c *gin.Context) {
	if h.batch == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "batch service not configured"))
		return
	}
	views, err := h.batch.UsageRecords(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views)
}
