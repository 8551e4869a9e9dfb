package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/andrifar/lemdik-sched-api/internal/models"
	"github.com/andrifar/lemdik-sched-api/internal/scheduler"
)

const refDataCacheKey = "refdata:v1"

type refSubjectLister interface {
	ListAll(ctx context.Context) ([]models.Subject, error)
}

type refLecturerLister interface {
	ListAll(ctx context.Context) ([]models.Lecturer, error)
}

type refLocationLister interface {
	ListAll(ctx context.Context) ([]models.Location, error)
}

// refDataPayload is the cached JSON form of a reference snapshot.
type refDataPayload struct {
	Subjects  []models.Subject  `json:"subjects"`
	Lecturers []models.Lecturer `json:"lecturers"`
	Locations []models.Location `json:"locations"`
}

// RefDataConfig tunes reference snapshot caching.
type RefDataConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// RefDataService loads the read-only reference snapshot an assignment run
// works from. With caching enabled, repeated runs inside the TTL reuse the
// Redis copy instead of hitting the database.
type RefDataService struct {
	subjects  refSubjectLister
	lecturers refLecturerLister
	locations refLocationLister
	cache     *redis.Client
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       RefDataConfig
}

// NewRefDataService constructs the loader. cache may be nil.
func NewRefDataService(subjects refSubjectLister, lecturers refLecturerLister, locations refLocationLister, cache *redis.Client, metrics *MetricsService, logger *zap.Logger, cfg RefDataConfig) *RefDataService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &RefDataService{
		subjects:  subjects,
		lecturers: lecturers,
		locations: locations,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// Load returns the current reference snapshot.
func (s *RefDataService) Load(ctx context.Context) (*scheduler.ReferenceSet, error) {
	if payload, ok := s.fromCache(ctx); ok {
		return buildReferenceSet(payload), nil
	}

	payload, err := s.fromDatabase(ctx)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, payload)
	return buildReferenceSet(payload), nil
}

// Invalidate drops the cached snapshot after reference data changes.
func (s *RefDataService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, refDataCacheKey).Err(); err != nil {
		s.logger.Sugar().Warnw("failed to invalidate reference cache", "error", err)
	}
}

func (s *RefDataService) fromCache(ctx context.Context) (*refDataPayload, bool) {
	if !s.cfg.CacheEnabled || s.cache == nil {
		return nil, false
	}
	start := time.Now()
	raw, err := s.cache.Get(ctx, refDataCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Sugar().Warnw("reference cache read failed", "error", err)
		}
		s.metrics.RecordCacheOperation(false, time.Since(start))
		return nil, false
	}
	var payload refDataPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		s.logger.Sugar().Warnw("reference cache entry corrupt, reloading", "error", err)
		s.metrics.RecordCacheOperation(false, time.Since(start))
		return nil, false
	}
	s.metrics.RecordCacheOperation(true, time.Since(start))
	return &payload, true
}

func (s *RefDataService) toCache(ctx context.Context, payload *refDataPayload) {
	if !s.cfg.CacheEnabled || s.cache == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		s.logger.Sugar().Warnw("failed to encode reference snapshot", "error", err)
		return
	}
	if err := s.cache.Set(ctx, refDataCacheKey, raw, s.cfg.CacheTTL).Err(); err != nil {
		s.logger.Sugar().Warnw("reference cache write failed", "error", err)
	}
}

func (s *RefDataService) fromDatabase(ctx context.Context) (*refDataPayload, error) {
	subjects, err := s.subjects.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	lecturers, err := s.lecturers.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	locations, err := s.locations.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return &refDataPayload{Subjects: subjects, Lecturers: lecturers, Locations: locations}, nil
}

func buildReferenceSet(payload *refDataPayload) *scheduler.ReferenceSet {
	subjects := make(map[string]models.Subject, len(payload.Subjects))
	for _, subject := range payload.Subjects {
		subjects[subject.ID] = subject
	}
	return &scheduler.ReferenceSet{
		Subjects:  subjects,
		Lecturers: payload.Lecturers,
		Locations: payload.Locations,
	}
}
