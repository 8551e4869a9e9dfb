package models

import "time"

// CourseStatus tracks where a course sits in the scheduling lifecycle.
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "draft"
	CourseStatusScheduled CourseStatus = "scheduled"
	CourseStatusDone      CourseStatus = "done"
)

// Course is the owning unit for a set of teams and one term date range.
type Course struct {
	ID        string       `db:"id" json:"id"`
	Name      string       `db:"name" json:"name"`
	Status    CourseStatus `db:"status" json:"status"`
	StartDate time.Time    `db:"start_date" json:"start_date"`
	EndDate   time.Time    `db:"end_date" json:"end_date"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}
