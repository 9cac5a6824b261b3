package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time with second precision and no date or
// time zone attached. The zero value means "no time set".
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int

	set bool
}

// NewTimeOfDay builds a TimeOfDay from its components.
func NewTimeOfDay(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %02d:%02d:%02d", ErrInvalidTime, hour, minute, second)
	}

	return TimeOfDay{Hour: hour, Minute: minute, Second: second, set: true}, nil
}

// MustTimeOfDay is NewTimeOfDay for compile-time constants; it panics on
// an out-of-range component.
func MustTimeOfDay(hour, minute, second int) TimeOfDay {
	t, err := NewTimeOfDay(hour, minute, second)
	if err != nil {
		panic(err)
	}

	return t
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	if value == "" {
		return TimeOfDay{}, ErrInvalidTime
	}

	var hour, minute, second int

	n, err := fmt.Sscanf(value, "%d:%d:%d", &hour, &minute, &second)
	if n < 2 && err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}

	return NewTimeOfDay(hour, minute, second)
}

// IsSet reports whether a time was actually provided. The distinction
// matters because 00:00:00 is a valid schedule time.
func (t TimeOfDay) IsSet() bool {
	return t.set
}

// Minutes returns minutes since midnight, ignoring seconds. Used for
// bucket classification and maintenance window checks.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// On anchors the time of day onto the date of the given instant, in that
// instant's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, t.Second, 0, date.Location())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// MarshalJSON encodes the time as an "HH:MM:SS" string, the wire format
// the trigger API exchanges with its callers.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	if !t.set {
		return []byte(`""`), nil
	}

	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw == "" {
		*t = TimeOfDay{}

		return nil
	}

	parsed, err := ParseTimeOfDay(raw)
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}
