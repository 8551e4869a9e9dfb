package scheduler

import (
	"context"
	"math/rand"
	"sort"

	"go.uber.org/zap"

	"github.com/andrifar/lemdik-sched-api/internal/models"
)

// ReferenceSet is the read-only reference data one batch run works from.
// It is loaded once per run; nothing mutates it.
type ReferenceSet struct {
	Subjects  map[string]models.Subject
	Lecturers []models.Lecturer
	Locations []models.Location
}

// Assigner fills lecturers and locations into placed sessions, one
// (date, daySlot) group at a time, consulting and updating the shared
// usage tracker between groups.
type Assigner struct {
	refs    *ReferenceSet
	tracker *Tracker
	rng     *rand.Rand
	logger  *zap.Logger
}

// NewAssigner builds an assignment engine over loaded reference data.
func NewAssigner(refs *ReferenceSet, tracker *Tracker, rng *rand.Rand, logger *zap.Logger) *Assigner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assigner{refs: refs, tracker: tracker, rng: rng, logger: logger}
}

type slotGroup struct {
	daySlot  models.DaySlot
	date     string
	sessions []*models.ScheduleSession
}

// AssignDocument resolves resources for every subject-bearing session in
// one weekly document. Lecturer counters are seeded once here and carried
// across all slot groups, so maxSessionsPerWeek caps the whole week, not a
// single group. Sessions whose subject cannot be resolved are skipped and
// logged; only tracker failures abort the document.
func (a *Assigner) AssignDocument(ctx context.Context, sessions []*models.ScheduleSession) error {
	groups := groupBySlot(sessions)
	weekCounts := make(map[string]int, len(a.refs.Lecturers))

	for _, group := range groups {
		if err := a.assignGroup(ctx, group, weekCounts); err != nil {
			return err
		}
	}
	return nil
}

func (a *Assigner) assignGroup(ctx context.Context, group slotGroup, weekCounts map[string]int) error {
	usage, err := a.tracker.Snapshot(ctx, group.daySlot, group.date)
	if err != nil {
		return err
	}

	lecturers := a.candidateLecturers(usage, weekCounts)
	locations := a.candidateLocations(usage)

	var committedLecturers []string
	var committedLocations []string

	for _, session := range group.sessions {
		subject, ok := a.refs.Subjects[*session.SubjectID]
		if !ok {
			a.logger.Sugar().Warnw("session subject not in reference data, skipping",
				"team_id", session.TeamID, "subject_id", *session.SubjectID,
				"date", session.Date, "session", session.DaySlot)
			continue
		}

		if session.LecturerID == nil {
			if id, ok := pickLecturer(lecturers, subject, weekCounts); ok {
				session.LecturerID = &id
				committedLecturers = append(committedLecturers, id)
				lecturers = dropCappedLecturers(lecturers, weekCounts)
			}
		}

		if session.LocationID == nil {
			if idx := pickLocation(locations, subject.ID); idx >= 0 {
				id := locations[idx].ID
				session.LocationID = &id
				committedLocations = append(committedLocations, id)
				// One assignment per location per slot group.
				locations = append(locations[:idx], locations[idx+1:]...)
			}
		}
	}

	return a.tracker.Commit(ctx, group.daySlot, group.date, committedLecturers, committedLocations)
}

// candidateLecturers builds the randomized lecturer queue for one group:
// anyone with a positive weekly cap, not already committed elsewhere for
// this slot, and still under their cap for this document.
func (a *Assigner) candidateLecturers(usage *SlotUsage, weekCounts map[string]int) []*models.Lecturer {
	queue := make([]*models.Lecturer, 0, len(a.refs.Lecturers))
	for i := range a.refs.Lecturers {
		lecturer := &a.refs.Lecturers[i]
		if lecturer.MaxSessionsPerWeek <= 0 {
			continue
		}
		if _, taken := usage.Lecturers[lecturer.ID]; taken {
			continue
		}
		if weekCounts[lecturer.ID] >= lecturer.MaxSessionsPerWeek {
			continue
		}
		queue = append(queue, lecturer)
	}
	a.rng.Shuffle(len(queue), func(i, j int) { queue[i], queue[j] = queue[j], queue[i] })
	return queue
}

// candidateLocations builds the randomized location queue: rooms whose
// committed usage for this slot still leaves capacity headroom.
func (a *Assigner) candidateLocations(usage *SlotUsage) []*models.Location {
	queue := make([]*models.Location, 0, len(a.refs.Locations))
	for i := range a.refs.Locations {
		location := &a.refs.Locations[i]
		if usage.LocationCounts[location.ID] >= location.Capacity {
			continue
		}
		queue = append(queue, location)
	}
	a.rng.Shuffle(len(queue), func(i, j int) { queue[i], queue[j] = queue[j], queue[i] })
	return queue
}

// pickLecturer prefers a specialized lecturer of the subject's faculty,
// then any lecturer of the matching faculty still under cap.
func pickLecturer(queue []*models.Lecturer, subject models.Subject, weekCounts map[string]int) (string, bool) {
	for _, lecturer := range queue {
		if lecturer.Faculty == subject.Category &&
			lecturer.Specializes(subject.ID) &&
			weekCounts[lecturer.ID] < lecturer.MaxSessionsPerWeek {
			weekCounts[lecturer.ID]++
			return lecturer.ID, true
		}
	}
	for _, lecturer := range queue {
		if lecturer.Faculty == subject.Category &&
			weekCounts[lecturer.ID] < lecturer.MaxSessionsPerWeek {
			weekCounts[lecturer.ID]++
			return lecturer.ID, true
		}
	}
	return "", false
}

// pickLocation prefers a room listing the subject as eligible, falling back
// to the first queued room. Returns -1 when the queue is empty.
func pickLocation(queue []*models.Location, subjectID string) int {
	for i, location := range queue {
		if location.Eligible(subjectID) {
			return i
		}
	}
	if len(queue) > 0 {
		return 0
	}
	return -1
}

func dropCappedLecturers(queue []*models.Lecturer, weekCounts map[string]int) []*models.Lecturer {
	kept := queue[:0]
	for _, lecturer := range queue {
		if weekCounts[lecturer.ID] < lecturer.MaxSessionsPerWeek {
			kept = append(kept, lecturer)
		}
	}
	return kept
}

// groupBySlot collects the sessions still needing resources into
// (date, daySlot) groups ordered by date then slot sequence.
func groupBySlot(sessions []*models.ScheduleSession) []slotGroup {
	index := make(map[string]int)
	var groups []slotGroup
	for _, session := range sessions {
		if !session.NeedsResources() {
			continue
		}
		key := session.SlotKey()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, slotGroup{daySlot: session.DaySlot, date: session.Date})
		}
		groups[i].sessions = append(groups[i].sessions, session)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		if groups[a].date != groups[b].date {
			return groups[a].date < groups[b].date
		}
		return slotOrder(groups[a].daySlot) < slotOrder(groups[b].daySlot)
	})
	return groups
}

func slotOrder(slot models.DaySlot) int {
	for i, s := range models.DaySlots {
		if s == slot {
			return i
		}
	}
	return len(models.DaySlots)
}
