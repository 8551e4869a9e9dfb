package dto

// GenerateScheduleRequest starts phase one for every team of a course.
type GenerateScheduleRequest struct {
	CourseID  string `json:"courseId" validate:"required"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
}

// TeamScheduleSummary reports what phase one produced for one team.
type TeamScheduleSummary struct {
	TeamID    string `json:"teamId"`
	Weeks     int    `json:"weeks"`
	Subjects  int    `json:"subjects"`
	Breaks    int    `json:"breaks"`
	Documents int    `json:"documents"`
}

// GenerateScheduleResponse returns the placement outcome per team.
type GenerateScheduleResponse struct {
	CourseID   string                `json:"courseId"`
	TotalSlots int                   `json:"totalSlots"`
	Teams      []TeamScheduleSummary `json:"teams"`
}

// AssignScheduleRequest tunes the batch run trigger.
type AssignScheduleRequest struct {
	CourseID string `json:"courseId" validate:"omitempty"`
}

// BatchJobResponse acknowledges an enqueued batch run.
type BatchJobResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

// SessionRecord is the wire form of one schedule session inside a weekly
// document. Field names match the persisted JSON documents exactly.
type SessionRecord struct {
	Week       int     `json:"week" validate:"required,min=1"`
	TeamID     string  `json:"teamId" validate:"required"`
	SubjectID  *string `json:"subjectId"`
	Date       string  `json:"date" validate:"required,datetime=2006-01-02"`
	DayOfWeek  string  `json:"dayOfWeek" validate:"required,oneof=Mon Tue Wed Thu Fri Sat"`
	DaySlot    string  `json:"session" validate:"required,oneof=morning afternoon evening"`
	LecturerID *string `json:"lecturerId"`
	LocationID *string `json:"locationId"`
}

// TeamScheduleResponse returns the completed documents for one team.
type TeamScheduleResponse struct {
	TeamID    string           `json:"teamId"`
	Documents []WeeklyDocument `json:"documents"`
}

// WeeklyDocument is one persisted week of sessions for a team.
type WeeklyDocument struct {
	Name     string          `json:"name"`
	Sessions []SessionRecord `json:"sessions"`
}

// UsageRecordView is the diagnostics rendering of one usage aggregate.
type UsageRecordView struct {
	SlotKey        string         `json:"slotKey"`
	LecturerIDs    []string       `json:"lecturerIds"`
	LocationCounts map[string]int `json:"locationCounts"`
}
