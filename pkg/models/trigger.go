// Package models defines the core domain models for workflow trigger
// scheduling.
package models

import (
	"fmt"
	"time"
)

// Trigger binds a schedule to exactly one workflow. A workflow has at
// most one trigger; the persistence layer enforces this with a unique
// constraint and the service layer pre-checks it.
//
// Deactivation (Active=false) is the soft delete: the row is retained
// for audit and can be revived by toggle or update. Hard delete removes
// the row permanently.
type Trigger struct {
	ID         string `json:"ts_id"`
	WorkflowID string `json:"wf_id"  validate:"required"`

	// WorkflowName and Description are joined from the workflow registry
	// at query time; they are not owned by this entity.
	WorkflowName string `json:"workflow_name,omitempty"`
	Description  string `json:"description,omitempty"`

	ScheduleType ScheduleType `json:"schedule_type" validate:"required"`
	Days         []Weekday    `json:"days"`
	Time         TimeOfDay    `json:"time"`

	// CronExpression is derived from the schedule fields and stored for
	// interchange with the downstream dispatcher. Regenerated on every
	// schedule change.
	CronExpression string `json:"cron_expression,omitempty"`

	NotifyBefore bool `json:"is_notify_before"`
	NotifyAfter  bool `json:"is_notify_after"`
	Active       bool `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TriggerData is the validated configuration accepted at the system
// boundary for creating or updating a trigger. It is checked once, here,
// before any persistence call is issued.
type TriggerData struct {
	WorkflowID   string       `json:"wf_id"`
	ScheduleType ScheduleType `json:"schedule_type"`
	Days         []Weekday    `json:"days"`
	Time         TimeOfDay    `json:"time"`
	NotifyBefore bool         `json:"is_notify_before"`
	NotifyAfter  bool         `json:"is_notify_after"`
}

// Validate checks the configuration. forUpdate relaxes the workflow
// requirement since updates never move a trigger between workflows.
func (d TriggerData) Validate(forUpdate bool) error {
	if !forUpdate && d.WorkflowID == "" {
		return fmt.Errorf("%w: workflow is required", ErrInvalidTrigger)
	}

	if d.ScheduleType == "" {
		return fmt.Errorf("%w: schedule type is required", ErrInvalidTrigger)
	}

	if !d.ScheduleType.Valid() {
		return fmt.Errorf("%w: unknown schedule type %q", ErrInvalidTrigger, d.ScheduleType)
	}

	if !d.Time.IsSet() {
		return fmt.Errorf("%w: time is required", ErrInvalidTrigger)
	}

	if d.ScheduleType == ScheduleTypeWeekly && len(d.Days) == 0 {
		return fmt.Errorf("%w: weekly schedule needs at least one day", ErrInvalidTrigger)
	}

	for _, day := range d.Days {
		if !day.Valid() {
			return fmt.Errorf("%w: day index %d out of range", ErrInvalidTrigger, int(day))
		}
	}

	return nil
}

// Schedule extracts the configured schedule value.
func (d TriggerData) Schedule() Schedule {
	return Schedule{Type: d.ScheduleType, Days: d.Days, Time: d.Time}
}

// NewTrigger creates an active trigger from validated configuration.
func NewTrigger(id string, data TriggerData) *Trigger {
	now := time.Now().UTC()

	return &Trigger{
		ID:           id,
		WorkflowID:   data.WorkflowID,
		ScheduleType: data.ScheduleType,
		Days:         data.Days,
		Time:         data.Time,
		NotifyBefore: data.NotifyBefore,
		NotifyAfter:  data.NotifyAfter,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ApplySchedule replaces the schedule fields from validated
// configuration. Activity state is untouched; toggling is a separate
// operation.
func (t *Trigger) ApplySchedule(data TriggerData) {
	t.ScheduleType = data.ScheduleType
	t.Days = data.Days
	t.Time = data.Time
	t.NotifyBefore = data.NotifyBefore
	t.NotifyAfter = data.NotifyAfter
	t.UpdatedAt = time.Now().UTC()
}

// Schedule returns the trigger's schedule value.
func (t *Trigger) Schedule() Schedule {
	return Schedule{Type: t.ScheduleType, Days: t.Days, Time: t.Time}
}

// NextRun returns the trigger's next execution instant after now.
func (t *Trigger) NextRun(now time.Time) (time.Time, bool) {
	return t.Schedule().NextRun(now)
}

// Status derives the human-facing status at the given instant.
func (t *Trigger) Status(now time.Time) Status {
	return TriggerStatus(t, now)
}

// Validate checks a fully-formed trigger, as stored or loaded.
func (t *Trigger) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidTrigger)
	}

	data := TriggerData{
		WorkflowID:   t.WorkflowID,
		ScheduleType: t.ScheduleType,
		Days:         t.Days,
		Time:         t.Time,
	}

	return data.Validate(false)
}
