package models

import "time"

// Team is a group of trainees that receives one generated schedule.
type Team struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Program   string    `db:"program" json:"program"`
	CourseID  string    `db:"course_id" json:"course_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TeamFilter narrows team listings.
type TeamFilter struct {
	CourseID string
	Program  string
}
