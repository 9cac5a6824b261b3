package models

import (
	"slices"
	"time"
)

// ScheduleType selects how the day set is interpreted.
type ScheduleType string

const (
	// ScheduleTypeWeekly runs on an explicit, non-empty set of weekdays.
	ScheduleTypeWeekly ScheduleType = "weekly"

	// ScheduleTypeDaily runs every day. The day set carries no distinct
	// meaning for daily schedules.
	ScheduleTypeDaily ScheduleType = "daily"
)

// Valid reports whether the schedule type is a known value.
func (s ScheduleType) Valid() bool {
	return s == ScheduleTypeWeekly || s == ScheduleTypeDaily
}

// Schedule is the pure scheduling value of a trigger: when it runs,
// detached from identity and lifecycle state. All methods are pure
// functions of the schedule and the caller-supplied reference instant,
// which keeps them deterministic under test and safe to call from any
// goroutine.
type Schedule struct {
	Type ScheduleType `json:"schedule_type"`
	Days []Weekday    `json:"days"`
	Time TimeOfDay    `json:"time"`
}

// NextRun returns the first instant strictly after now at which the
// schedule fires, scanning at most the next seven days. It returns the
// zero time and false when the day set is empty or no time is set.
func (s Schedule) NextRun(now time.Time) (time.Time, bool) {
	if len(s.Days) == 0 || !s.Time.IsSet() {
		return time.Time{}, false
	}

	for offset := range daysPerWeek {
		candidate := s.Time.On(now.AddDate(0, 0, offset))

		if slices.Contains(s.Days, WeekdayOf(candidate)) && candidate.After(now) {
			return candidate, true
		}
	}

	return time.Time{}, false
}

// RunsOn reports whether the schedule fires on the given weekday.
func (s Schedule) RunsOn(day Weekday) bool {
	return slices.Contains(s.Days, day)
}

// TimeType returns the load-distribution bucket of the schedule's time.
func (s Schedule) TimeType() TimeType {
	return ClassifyTime(s.Time)
}

// DaysLabel renders the day set for display.
func (s Schedule) DaysLabel() string {
	return FormatDays(s.Days)
}
