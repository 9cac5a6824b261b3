package models

import "errors"

var (
	// ErrInvalidTime is returned for unparseable or out-of-range times.
	ErrInvalidTime = errors.New("invalid time of day")

	// ErrInvalidWeekday is returned for day indices outside 0..6.
	ErrInvalidWeekday = errors.New("invalid weekday")

	// ErrInvalidTrigger is returned when trigger validation fails.
	ErrInvalidTrigger = errors.New("invalid trigger configuration")
)
