package models

import "time"

// Category is the two-valued faculty classification of a subject.
type Category string

const (
	CategoryCivic    Category = "civic"
	CategoryMilitary Category = "military"
)

// Valid reports whether the category is one of the two known faculties.
func (c Category) Valid() bool {
	return c == CategoryCivic || c == CategoryMilitary
}

// Subject represents an academic subject. At most one direct prerequisite
// is allowed, so the prerequisite relation forms a forest.
type Subject struct {
	ID             string    `db:"id" json:"id"`
	Code           string    `db:"code" json:"code"`
	Name           string    `db:"name" json:"name"`
	Category       Category  `db:"category" json:"category"`
	PrerequisiteID *string   `db:"prerequisite_id" json:"prerequisite_id,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
