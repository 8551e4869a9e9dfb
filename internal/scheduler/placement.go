package scheduler

import (
	"github.com/andrifar/lemdik-sched-api/internal/models"
)

// PlaceSubjects walks the enumerated slots for one team and produces one
// ScheduleSession per slot: a subject, a break, or an empty slot once both
// the queue and the break budget are exhausted.
//
// Planned break slots (see PlanBreaks) take a break first while budget
// remains; when the subject queue runs out early, any remaining budget
// also turns slots into breaks. A candidate subject must differ in
// category from the previous subject placed in this walk; breaks do not
// reset the alternation. When no alternating candidate remains the front
// of the queue is taken regardless of category, so alternation is best
// effort, not guaranteed.
func PlaceSubjects(teamID string, slots []Slot, queue []models.Subject, breakBudget int) []models.ScheduleSession {
	sessions := make([]models.ScheduleSession, 0, len(slots))
	remaining := make([]models.Subject, len(queue))
	copy(remaining, queue)
	budget := breakBudget
	planned := PlanBreaks(slots, breakBudget)

	var lastCategory models.Category

	for i, slot := range slots {
		session := models.ScheduleSession{
			Week:      slot.Week,
			TeamID:    teamID,
			Date:      slot.DateString(),
			DayOfWeek: slot.Date.Format("Mon"),
			DaySlot:   slot.DaySlot,
		}

		_, plannedBreak := planned[i]
		takeBreak := budget > 0 && (plannedBreak || len(remaining) == 0)
		if takeBreak {
			breakID := models.BreakSubjectID
			session.SubjectID = &breakID
			budget--
			sessions = append(sessions, session)
			continue
		}

		if len(remaining) > 0 {
			var subject models.Subject
			subject, remaining = popAlternating(remaining, lastCategory)
			id := subject.ID
			session.SubjectID = &id
			lastCategory = subject.Category
		}

		sessions = append(sessions, session)
	}

	return sessions
}

// popAlternating removes and returns the first queued subject whose
// category differs from prev, falling back to the queue front when no
// alternating candidate exists.
func popAlternating(queue []models.Subject, prev models.Category) (models.Subject, []models.Subject) {
	pick := 0
	if prev != "" {
		for i, subject := range queue {
			if subject.Category != prev {
				pick = i
				break
			}
		}
	}
	subject := queue[pick]
	rest := make([]models.Subject, 0, len(queue)-1)
	rest = append(rest, queue[:pick]...)
	rest = append(rest, queue[pick+1:]...)
	return subject, rest
}

// GroupByWeek partitions a team's full session list into per-week
// documents, preserving order within each week.
func GroupByWeek(sessions []models.ScheduleSession) map[int][]models.ScheduleSession {
	weeks := make(map[int][]models.ScheduleSession)
	for _, session := range sessions {
		weeks[session.Week] = append(weeks[session.Week], session)
	}
	return weeks
}
