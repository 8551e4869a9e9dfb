package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/andrifar/lemdik-sched-api/internal/models"
)

// LecturerRepository manages persistence for lecturer reference data.
type LecturerRepository struct {
	db *sqlx.DB
}

// NewLecturerRepository constructs a LecturerRepository.
func NewLecturerRepository(db *sqlx.DB) *LecturerRepository {
	return &LecturerRepository{db: db}
}

// ListAll returns every lecturer ordered by name.
func (r *LecturerRepository) ListAll(ctx context.Context) ([]models.Lecturer, error) {
	const query = `SELECT id, name, faculty, max_sessions_per_week, specializations, created_at, updated_at FROM lecturers ORDER BY name`
	var lecturers []models.Lecturer
	if err := r.db.SelectContext(ctx, &lecturers, query); err != nil {
		return nil, fmt.Errorf("list lecturers: %w", err)
	}
	return lecturers, nil
}

// ListByFaculty returns lecturers of one faculty ordered by name.
func (r *LecturerRepository) ListByFaculty(ctx context.Context, faculty models.Category) ([]models.Lecturer, error) {
	const query = `SELECT id, name, faculty, max_sessions_per_week, specializations, created_at, updated_at FROM lecturers WHERE faculty = $1 ORDER BY name`
	var lecturers []models.Lecturer
	if err := r.db.SelectContext(ctx, &lecturers, query, faculty); err != nil {
		return nil, fmt.Errorf("list lecturers by faculty: %w", err)
	}
	return lecturers, nil
}

// FindByID fetches a lecturer by ID.
func (r *LecturerRepository) FindByID(ctx context.Context, id string) (*models.Lecturer, error) {
	const query = `SELECT id, name, faculty, max_sessions_per_week, specializations, created_at, updated_at FROM lecturers WHERE id = $1`
	var lecturer models.Lecturer
	if err := r.db.GetContext(ctx, &lecturer, query, id); err != nil {
		return nil, err
	}
	return &lecturer, nil
}

// Create inserts a new lecturer record.
func (r *LecturerRepository) Create(ctx context.Context, lecturer *models.Lecturer) error {
	if lecturer.ID == "" {
		lecturer.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if lecturer.CreatedAt.IsZero() {
		lecturer.CreatedAt = now
	}
	lecturer.UpdatedAt = now

	const query = `INSERT INTO lecturers (id, name, faculty, max_sessions_per_week, specializations, created_at, updated_at)
		VALUES (:id, :name, :faculty, :max_sessions_per_week, :specializations, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, lecturer); err != nil {
		return fmt.Errorf("create lecturer: %w", err)
	}
	return nil
}
