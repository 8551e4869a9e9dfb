package models

import (
	"time"

	"github.com/lib/pq"
)

// Location is room reference data. Capacity is the number of simultaneous
// sessions the room can hold in one day slot.
type Location struct {
	ID               string         `db:"id" json:"id"`
	Name             string         `db:"name" json:"name"`
	Capacity         int            `db:"capacity" json:"capacity"`
	EligibleSubjects pq.StringArray `db:"eligible_subjects" json:"eligible_subjects"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// Eligible reports whether the subject may be taught in this location.
func (l *Location) Eligible(subjectID string) bool {
	for _, id := range l.EligibleSubjects {
		if id == subjectID {
			return true
		}
	}
	return false
}
