/*
recurrence.go - Weekly recurring time-of-day windows

PURPOSE:
  A RecurrenceRule describes one weekday + time window during which its
  owning promo is eligible ("Friday 17:00-19:00"). Rules answer exactly one
  question: is a given instant inside this window?

MIDNIGHT CROSSING:
  A window whose end time is at or before its start time is interpreted as
  crossing midnight into the next calendar day. "Friday 22:00-02:00" covers
  Friday 23:30 and Saturday 01:00, but not Saturday 03:00. Matching is
  anchored on the rule's weekday: the instant must fall on the rule's day,
  or within the spill-over hours of the following day.

SEE ALSO:
  - promo.go: Promo validity combines rules with absolute date bounds
*/
package promo

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RecurrenceRule is one weekly window gating a promo's validity.
// StartTime and EndTime are 24h "HH:MM" strings.
type RecurrenceRule struct {
	ID        string
	PromoID   string
	DayOfWeek string // English day name: "Monday" .. "Sunday"
	StartTime string
	EndTime   string
}

// IsWithin reports whether t falls inside this rule's window.
// t is assumed to already be in the restaurant's local time zone.
// The comparison is inclusive on both ends.
func (r RecurrenceRule) IsWithin(t time.Time) bool {
	startH, startM, err := parseClock(r.StartTime)
	if err != nil {
		return false
	}
	endH, endM, err := parseClock(r.EndTime)
	if err != nil {
		return false
	}

	// Anchor the window on the most recent occurrence of the rule's day:
	// either t's own day, or the previous day when the window spills past
	// midnight into t's day.
	for _, dayOffset := range []int{0, -1} {
		anchor := t.AddDate(0, 0, dayOffset)
		if anchor.Weekday().String() != r.DayOfWeek {
			continue
		}

		start := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), startH, startM, 0, 0, t.Location())
		end := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), endH, endM, 0, 0, t.Location())
		if !end.After(start) {
			end = end.AddDate(0, 0, 1) // crosses midnight
		} else if dayOffset == -1 {
			// Window contained in the anchor day cannot reach t's day.
			continue
		}

		if !t.Before(start) && !t.After(end) {
			return true
		}
	}
	return false
}

// validate checks the rule definition itself, not an instant.
func (r RecurrenceRule) validate() error {
	if !validDayName(r.DayOfWeek) {
		return fmt.Errorf("unknown day of week %q", r.DayOfWeek)
	}
	if _, _, err := parseClock(r.StartTime); err != nil {
		return fmt.Errorf("start time: %w", err)
	}
	if _, _, err := parseClock(r.EndTime); err != nil {
		return fmt.Errorf("end time: %w", err)
	}
	return nil
}

func validDayName(day string) bool {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d.String() == day {
			return true
		}
	}
	return false
}

// parseClock parses "HH:MM" in 24h notation.
func parseClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q (use HH:MM)", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}
