package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrifar/lemdik-sched-api/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEnumerateSlotsSkipsSundayAndHolidays(t *testing.T) {
	holidays := map[string]struct{}{"2026-01-07": {}}

	// Monday Jan 5 through Monday Jan 12, with Wednesday Jan 7 a holiday.
	slots := EnumerateSlots(date(2026, time.January, 5), date(2026, time.January, 12), holidays)

	// 6 teachable days (Mon, Tue, Thu, Fri, Sat, next Mon) x 3 slots.
	require.Len(t, slots, 18)
	for _, slot := range slots {
		assert.NotEqual(t, time.Sunday, slot.Day)
		assert.NotEqual(t, "2026-01-07", slot.DateString())
	}
}

func TestEnumerateSlotsDaySlotOrder(t *testing.T) {
	slots := EnumerateSlots(date(2026, time.January, 5), date(2026, time.January, 5), nil)

	require.Len(t, slots, 3)
	assert.Equal(t, models.DaySlotMorning, slots[0].DaySlot)
	assert.Equal(t, models.DaySlotAfternoon, slots[1].DaySlot)
	assert.Equal(t, models.DaySlotEvening, slots[2].DaySlot)
	assert.Equal(t, "morning_2026-01-05", slots[0].Key())
}

func TestEnumerateSlotsWeekGrouping(t *testing.T) {
	// Wednesday Jan 7 start: week 1 is partial (Wed-Sat), week 2 begins
	// the following Monday.
	slots := EnumerateSlots(date(2026, time.January, 7), date(2026, time.January, 13), nil)

	weeks := make(map[string]int)
	for _, slot := range slots {
		weeks[slot.DateString()] = slot.Week
	}
	assert.Equal(t, 1, weeks["2026-01-07"])
	assert.Equal(t, 1, weeks["2026-01-10"])
	assert.Equal(t, 2, weeks["2026-01-12"])
	assert.Equal(t, 2, weeks["2026-01-13"])
}

func TestEnumerateSlotsSundayStartStaysWeekOne(t *testing.T) {
	// Sunday Jan 4 start: the skipped rest day must not burn week 1, so
	// Monday Jan 5 through Saturday Jan 10 all land in week 1.
	slots := EnumerateSlots(date(2026, time.January, 4), date(2026, time.January, 10), nil)

	require.Len(t, slots, 18)
	assert.Equal(t, "2026-01-05", slots[0].DateString())
	for _, slot := range slots {
		assert.Equal(t, 1, slot.Week, "date %s", slot.DateString())
	}
}

func TestHolidaySet(t *testing.T) {
	set := HolidaySet([]models.Holiday{{Date: date(2026, time.March, 3), Name: "exercise day"}})
	_, ok := set["2026-03-03"]
	assert.True(t, ok)
}
