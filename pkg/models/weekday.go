package models

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Weekday is the canonical internal day index: 0=Monday .. 6=Sunday.
// Cron expressions use Sunday-first numbering; conversion happens only at
// that boundary (CronWeekday / WeekdayFromCron), never inside the
// scheduling math.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

const daysPerWeek = 7

var dayNames = [daysPerWeek]struct {
	name  string
	short string
}{
	{"Monday", "Mon"},
	{"Tuesday", "Tue"},
	{"Wednesday", "Wed"},
	{"Thursday", "Thu"},
	{"Friday", "Fri"},
	{"Saturday", "Sat"},
	{"Sunday", "Sun"},
}

// Valid reports whether the index is inside 0..6.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}

	return dayNames[d].name
}

// Short returns the three-letter day name.
func (d Weekday) Short() string {
	if !d.Valid() {
		return "?"
	}

	return dayNames[d].short
}

// CronWeekday converts to cron's Sunday-first numbering (0=Sunday).
func (d Weekday) CronWeekday() int {
	return (int(d) + 1) % daysPerWeek
}

// WeekdayFromCron converts a cron weekday number (0=Sunday) back to the
// internal Monday-first index.
func WeekdayFromCron(cronDay int) (Weekday, error) {
	if cronDay < 0 || cronDay >= daysPerWeek {
		return 0, fmt.Errorf("%w: cron weekday %d", ErrInvalidWeekday, cronDay)
	}

	if cronDay == 0 {
		return Sunday, nil
	}

	return Weekday(cronDay - 1), nil
}

// WeekdayOf maps a time.Time onto the internal index.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % daysPerWeek)
}

// FormatDays renders a day set for display: "Every day", "Weekdays",
// "Weekends", or ascending comma-joined short names.
func FormatDays(days []Weekday) string {
	if len(days) == 0 {
		return "No days selected"
	}

	sorted := slices.Clone(days)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	if len(sorted) == daysPerWeek {
		return "Every day"
	}

	if len(sorted) == 5 && !slices.Contains(sorted, Saturday) && !slices.Contains(sorted, Sunday) {
		return "Weekdays"
	}

	if len(sorted) == 2 && slices.Contains(sorted, Saturday) && slices.Contains(sorted, Sunday) {
		return "Weekends"
	}

	names := make([]string, 0, len(sorted))
	for _, d := range sorted {
		if d.Valid() {
			names = append(names, d.Short())
		}
	}

	return strings.Join(names, ", ")
}
