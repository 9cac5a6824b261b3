// Package cron encodes trigger schedules as standard 5-field cron
// expressions and decodes them back. The expression is the interchange
// format with the downstream dispatcher; everything inside the engine
// works on the typed Schedule value.
//
// Cron weekday numbers are Sunday-first (0=Sunday). The engine's
// internal day indices are Monday-first; this package is the only place
// the two conventions meet.
package cron

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	robfig "github.com/robfig/cron/v3"

	"github.com/dukex/tempo/pkg/models"
)

const minCronFields = 5

var (
	// ErrEmptySchedule is returned when the schedule has no time set.
	ErrEmptySchedule = errors.New("schedule has no time set")

	// ErrMalformedExpression is returned when a cron string cannot be
	// decoded back into a schedule.
	ErrMalformedExpression = errors.New("malformed cron expression")
)

// parser accepts the standard 5-field format: minute hour dom month dow.
var parser = robfig.NewParser(robfig.Minute | robfig.Hour | robfig.Dom | robfig.Month | robfig.Dow)

// Encode renders a schedule as "minute hour * * weekdays". Daily
// schedules use "*" in the weekday field; weekly schedules list cron
// weekday numbers in ascending internal-day order. Seconds are dropped:
// 5-field cron has minute precision.
func Encode(s models.Schedule) (string, error) {
	if !s.Time.IsSet() {
		return "", ErrEmptySchedule
	}

	dow := "*"

	if s.Type != models.ScheduleTypeDaily {
		if len(s.Days) == 0 {
			return "", fmt.Errorf("%w: weekly schedule has no days", ErrEmptySchedule)
		}

		days := slices.Clone(s.Days)
		slices.Sort(days)
		days = slices.Compact(days)

		parts := make([]string, 0, len(days))
		for _, day := range days {
			if !day.Valid() {
				return "", fmt.Errorf("day index %d out of range: %w", int(day), models.ErrInvalidWeekday)
			}

			parts = append(parts, strconv.Itoa(day.CronWeekday()))
		}

		dow = strings.Join(parts, ",")
	}

	expr := fmt.Sprintf("%d %d * * %s", s.Time.Minute, s.Time.Hour, dow)

	// Self-check against the dispatcher's parser so we never hand it an
	// expression it would reject.
	if _, err := parser.Parse(expr); err != nil {
		return "", fmt.Errorf("encoded expression %q rejected: %w", expr, err)
	}

	return expr, nil
}

// Decode is the structural inverse of Encode. The day set comes back
// sorted ascending in the internal convention; the time has zero
// seconds.
func Decode(expr string) (models.Schedule, error) {
	fields := strings.Fields(expr)
	if len(fields) < minCronFields {
		return models.Schedule{}, fmt.Errorf("%w: need %d fields, got %d", ErrMalformedExpression, minCronFields, len(fields))
	}

	if _, err := parser.Parse(strings.Join(fields[:minCronFields], " ")); err != nil {
		return models.Schedule{}, fmt.Errorf("%w: %v", ErrMalformedExpression, err)
	}

	minute, err := strconv.Atoi(fields[0])
	if err != nil {
		return models.Schedule{}, fmt.Errorf("%w: minute %q", ErrMalformedExpression, fields[0])
	}

	hour, err := strconv.Atoi(fields[1])
	if err != nil {
		return models.Schedule{}, fmt.Errorf("%w: hour %q", ErrMalformedExpression, fields[1])
	}

	timeOfDay, err := models.NewTimeOfDay(hour, minute, 0)
	if err != nil {
		return models.Schedule{}, fmt.Errorf("%w: %v", ErrMalformedExpression, err)
	}

	if fields[4] == "*" {
		return models.Schedule{Type: models.ScheduleTypeDaily, Time: timeOfDay}, nil
	}

	rawDays := strings.Split(fields[4], ",")
	days := make([]models.Weekday, 0, len(rawDays))

	for _, raw := range rawDays {
		cronDay, err := strconv.Atoi(raw)
		if err != nil {
			return models.Schedule{}, fmt.Errorf("%w: weekday %q", ErrMalformedExpression, raw)
		}

		day, err := models.WeekdayFromCron(cronDay)
		if err != nil {
			return models.Schedule{}, fmt.Errorf("%w: %v", ErrMalformedExpression, err)
		}

		days = append(days, day)
	}

	slices.Sort(days)
	days = slices.Compact(days)

	return models.Schedule{Type: models.ScheduleTypeWeekly, Days: days, Time: timeOfDay}, nil
}

// Validate reports whether the expression parses as 5-field cron.
func Validate(expr string) error {
	if _, err := parser.Parse(expr); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedExpression, err)
	}

	return nil
}

// NextDue returns the next activation of the expression after the given
// instant, as the downstream dispatcher would compute it. Used to
// cross-check the engine's own NextRun arithmetic.
func NextDue(expr string, after time.Time) (time.Time, error) {
	schedule, err := parser.Parse(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedExpression, err)
	}

	return schedule.Next(after), nil
}
