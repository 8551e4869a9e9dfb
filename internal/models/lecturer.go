package models

import (
	"time"

	"github.com/lib/pq"
)

// Lecturer is instructor reference data. MaxSessionsPerWeek caps how many
// sessions the assignment engine may give out per schedule week.
type Lecturer struct {
	ID                 string         `db:"id" json:"id"`
	Name               string         `db:"name" json:"name"`
	Faculty            Category       `db:"faculty" json:"faculty"`
	MaxSessionsPerWeek int            `db:"max_sessions_per_week" json:"max_sessions_per_week"`
	Specializations    pq.StringArray `db:"specializations" json:"specializations"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updated_at"`
}

// Specializes reports whether the lecturer is specialized in the subject.
func (l *Lecturer) Specializes(subjectID string) bool {
	for _, id := range l.Specializations {
		if id == subjectID {
			return true
		}
	}
	return false
}

// LecturerFilter narrows lecturer listings.
type LecturerFilter struct {
	Faculty   Category
	Available bool
}
