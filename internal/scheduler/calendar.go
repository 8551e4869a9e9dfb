package scheduler

import (
	"math/rand"
	"time"

	"github.com/andrifar/lemdik-sched-api/internal/models"
)

// Slot is one teachable (date, daySlot) position in the term calendar.
type Slot struct {
	Week    int
	Date    time.Time
	Day     time.Weekday
	DaySlot models.DaySlot
}

// DateString renders the slot date in the document wire format.
func (s Slot) DateString() string {
	return s.Date.Format(models.DateLayout)
}

// Key returns the usage-record slot key for this slot.
func (s Slot) Key() string {
	return models.SlotKey(s.DaySlot, s.DateString())
}

// EnumerateSlots expands a date range into the ordered sequence of valid
// (date, daySlot) pairs. Sundays and holiday dates are excluded. Weeks are
// grouped Monday through Saturday; the first week may be partial when the
// start date falls mid-week, and a Sunday start opens week 1 on the
// following Monday. Day slots run morning, afternoon, evening.
func EnumerateSlots(start, end time.Time, holidays map[string]struct{}) []Slot {
	var slots []Slot
	week := 1
	first := true
	for date := truncateDay(start); !date.After(truncateDay(end)); date = date.AddDate(0, 0, 1) {
		if date.Weekday() == time.Sunday {
			continue
		}
		if date.Weekday() == time.Monday && !first {
			week++
		}
		first = false
		if _, isHoliday := holidays[date.Format(models.DateLayout)]; isHoliday {
			continue
		}
		for _, daySlot := range models.DaySlots {
			slots = append(slots, Slot{
				Week:    week,
				Date:    date,
				Day:     date.Weekday(),
				DaySlot: daySlot,
			})
		}
	}
	return slots
}

// HolidaySet indexes holiday dates for calendar exclusion lookups.
func HolidaySet(holidays []models.Holiday) map[string]struct{} {
	set := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		set[h.Date.Format(models.DateLayout)] = struct{}{}
	}
	return set
}

// NewRand builds the random source shared by sequencing and candidate
// shuffles. A zero seed falls back to the clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
