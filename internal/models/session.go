package models

import "fmt"

// DaySlot is one of the three fixed daily teaching periods.
type DaySlot string

const (
	DaySlotMorning   DaySlot = "morning"
	DaySlotAfternoon DaySlot = "afternoon"
	DaySlotEvening   DaySlot = "evening"
)

// DaySlots lists the slots in their fixed daily order.
var DaySlots = []DaySlot{DaySlotMorning, DaySlotAfternoon, DaySlotEvening}

// Valid reports whether the slot is one of the three known periods.
func (d DaySlot) Valid() bool {
	return d == DaySlotMorning || d == DaySlotAfternoon || d == DaySlotEvening
}

// BreakSubjectID marks a scheduled non-teaching slot. A break is distinct
// from an empty slot, which carries a null subject id.
const BreakSubjectID = "BREAK"

// DateLayout is the wire format for session dates.
const DateLayout = "2006-01-02"

// ScheduleSession is the atomic schedulable unit. The placement engine
// creates it with SubjectID set and resource fields nil; the assignment
// engine later fills LecturerID and LocationID in place.
type ScheduleSession struct {
	Week       int     `json:"week"`
	TeamID     string  `json:"teamId"`
	SubjectID  *string `json:"subjectId"`
	Date       string  `json:"date"`
	DayOfWeek  string  `json:"dayOfWeek"`
	DaySlot    DaySlot `json:"session"`
	LecturerID *string `json:"lecturerId"`
	LocationID *string `json:"locationId"`
}

// IsBreak reports whether the session is a scheduled break.
func (s *ScheduleSession) IsBreak() bool {
	return s.SubjectID != nil && *s.SubjectID == BreakSubjectID
}

// IsTeaching reports whether the session carries a real subject.
func (s *ScheduleSession) IsTeaching() bool {
	return s.SubjectID != nil && *s.SubjectID != BreakSubjectID
}

// NeedsResources reports whether the assignment engine still has work here.
func (s *ScheduleSession) NeedsResources() bool {
	return s.IsTeaching() && (s.LecturerID == nil || s.LocationID == nil)
}

// SlotKey identifies the UsageRecord for this session's (daySlot, date).
func (s *ScheduleSession) SlotKey() string {
	return SlotKey(s.DaySlot, s.Date)
}

// SlotKey builds the composite usage-record key for a day slot and date.
func SlotKey(slot DaySlot, date string) string {
	return fmt.Sprintf("%s_%s", slot, date)
}
