package models

import "time"

// StatusType is the derived, human-facing execution status of a trigger.
type StatusType string

const (
	StatusInactive  StatusType = "inactive"
	StatusImminent  StatusType = "imminent"
	StatusToday     StatusType = "today"
	StatusScheduled StatusType = "scheduled"
)

// Status pairs the status type with its display message.
type Status struct {
	Type    StatusType `json:"type"`
	Message string     `json:"message"`
}

// TriggerStatus derives the status of a trigger at the given instant.
// The checks run in a fixed order so the most specific gap (no workflow,
// no days, no time) wins over the generic "no upcoming executions".
func TriggerStatus(t *Trigger, now time.Time) Status {
	if t.WorkflowID == "" {
		return Status{Type: StatusInactive, Message: "No workflow selected"}
	}

	if len(t.Days) == 0 {
		return Status{Type: StatusInactive, Message: "No days selected"}
	}

	if !t.Time.IsSet() {
		return Status{Type: StatusInactive, Message: "No time set"}
	}

	next, ok := t.Schedule().NextRun(now)
	if !ok {
		return Status{Type: StatusInactive, Message: "No upcoming executions"}
	}

	switch hoursUntil := next.Sub(now).Hours(); {
	case hoursUntil < 1:
		return Status{Type: StatusImminent, Message: "Executing soon"}
	case hoursUntil < 24:
		return Status{Type: StatusToday, Message: "Executing today"}
	default:
		return Status{Type: StatusScheduled, Message: "Scheduled"}
	}
}
