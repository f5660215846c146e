package promo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 2025-06-06 is a Friday.
func friday(hour, min int) time.Time {
	return time.Date(2025, time.June, 6, hour, min, 0, 0, time.UTC)
}

func saturday(hour, min int) time.Time {
	return time.Date(2025, time.June, 7, hour, min, 0, 0, time.UTC)
}

// =============================================================================
// CONTAINED WINDOW TESTS
// =============================================================================

func TestRecurrenceRule_ContainedWindow(t *testing.T) {
	// GIVEN: A happy hour window Friday 17:00-19:00
	// WHEN: Checking instants around the window
	// THEN: Only instants inside it on the right day match

	rule := RecurrenceRule{DayOfWeek: "Friday", StartTime: "17:00", EndTime: "19:00"}

	assert.True(t, rule.IsWithin(friday(18, 0)), "middle of the window")
	assert.True(t, rule.IsWithin(friday(17, 0)), "start is inclusive")
	assert.True(t, rule.IsWithin(friday(19, 0)), "end is inclusive")
	assert.False(t, rule.IsWithin(friday(16, 59)), "just before the window")
	assert.False(t, rule.IsWithin(friday(19, 1)), "just after the window")
	assert.False(t, rule.IsWithin(saturday(18, 0)), "right time, wrong day")
}

// =============================================================================
// MIDNIGHT CROSSING TESTS
// =============================================================================

func TestRecurrenceRule_MidnightCrossing(t *testing.T) {
	// GIVEN: A late-night window Friday 22:00-02:00
	// WHEN: Checking instants on Friday night and Saturday morning
	// THEN: The window covers Friday late evening and the spill-over into
	//       Saturday, but not the rest of Saturday

	rule := RecurrenceRule{DayOfWeek: "Friday", StartTime: "22:00", EndTime: "02:00"}

	assert.True(t, rule.IsWithin(friday(23, 30)), "Friday 23:30 is inside")
	assert.True(t, rule.IsWithin(saturday(1, 0)), "Saturday 01:00 is spill-over")
	assert.True(t, rule.IsWithin(saturday(2, 0)), "spill-over end is inclusive")
	assert.False(t, rule.IsWithin(saturday(3, 0)), "Saturday 03:00 is outside")
	assert.False(t, rule.IsWithin(friday(21, 0)), "Friday 21:00 is before the window")
	assert.False(t, rule.IsWithin(friday(2, 0)), "Friday morning belongs to Thursday's window")
}

func TestRecurrenceRule_EqualStartEnd_CrossesMidnight(t *testing.T) {
	// GIVEN: A rule whose end equals its start
	// WHEN: Checking instants over the following 24 hours
	// THEN: The window is read as a full day starting at the start time

	rule := RecurrenceRule{DayOfWeek: "Friday", StartTime: "12:00", EndTime: "12:00"}

	assert.True(t, rule.IsWithin(friday(12, 0)))
	assert.True(t, rule.IsWithin(friday(23, 0)))
	assert.True(t, rule.IsWithin(saturday(11, 59)))
	assert.False(t, rule.IsWithin(friday(11, 0)))
	assert.False(t, rule.IsWithin(saturday(13, 0)))
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestRecurrenceRule_Validate(t *testing.T) {
	valid := RecurrenceRule{DayOfWeek: "Monday", StartTime: "09:00", EndTime: "17:00"}
	assert.NoError(t, valid.validate())

	badDay := RecurrenceRule{DayOfWeek: "Funday", StartTime: "09:00", EndTime: "17:00"}
	assert.Error(t, badDay.validate())

	badClock := RecurrenceRule{DayOfWeek: "Monday", StartTime: "25:00", EndTime: "17:00"}
	assert.Error(t, badClock.validate())

	badFormat := RecurrenceRule{DayOfWeek: "Monday", StartTime: "9am", EndTime: "17:00"}
	assert.Error(t, badFormat.validate())
}

func TestRecurrenceRule_MalformedTimes_NeverMatch(t *testing.T) {
	rule := RecurrenceRule{DayOfWeek: "Friday", StartTime: "bogus", EndTime: "19:00"}
	assert.False(t, rule.IsWithin(friday(18, 0)))
}
