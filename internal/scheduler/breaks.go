package scheduler

import (
	"sort"
	"time"

	"github.com/andrifar/lemdik-sched-api/internal/models"
)

// breakPriorityThreshold marks the score at which a slot is considered low
// teaching value and preferred for break placement.
const breakPriorityThreshold = 30

// BreaksNeeded is the non-teaching slot budget for a calendar of the given
// size and subject pool.
func BreaksNeeded(totalSlots, subjectCount int) int {
	needed := totalSlots - subjectCount
	if needed < 0 {
		return 0
	}
	return needed
}

// PreferBreak reports whether a slot qualifies for priority break
// placement: every evening (the last slot of its day) and the whole
// Saturday, which sits against the Sunday rest day.
func PreferBreak(slot Slot) bool {
	return BreakScore(slot) >= breakPriorityThreshold
}

// PlanBreaks picks which slot positions the break budget goes to. When the
// budget covers every qualifying slot they all break; when it does not,
// the highest-scored qualifying slots break first, ties going to the
// earlier slot in enumeration order.
func PlanBreaks(slots []Slot, budget int) map[int]struct{} {
	var qualifying []int
	for i, slot := range slots {
		if PreferBreak(slot) {
			qualifying = append(qualifying, i)
		}
	}
	sort.SliceStable(qualifying, func(a, b int) bool {
		return BreakScore(slots[qualifying[a]]) > BreakScore(slots[qualifying[b]])
	})
	if budget < len(qualifying) {
		qualifying = qualifying[:budget]
	}
	planned := make(map[int]struct{}, len(qualifying))
	for _, i := range qualifying {
		planned[i] = struct{}{}
	}
	return planned
}

// BreakScore ranks (dayOfWeek, daySlot) pairs by how little teaching value
// they carry. Higher means better suited for a break.
func BreakScore(slot Slot) int {
	score := 0
	switch slot.DaySlot {
	case models.DaySlotEvening:
		score += 30
	case models.DaySlotAfternoon:
		score += 10
	}
	switch slot.Day {
	case time.Saturday:
		score += 40
	case time.Friday:
		score += 5
	}
	return score
}
