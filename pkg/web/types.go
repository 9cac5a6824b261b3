// Package web provides HTTP handlers and REST API endpoints for trigger
// schedule management.
package web

import (
	"fmt"
	"time"

	"github.com/dukex/tempo/pkg/models"
)

// CreateTriggerRequest represents the request body for creating a new trigger.
type CreateTriggerRequest struct {
	WorkflowID   string `json:"wf_id"            validate:"required"`
	ScheduleType string `json:"schedule_type"    validate:"required,oneof=weekly daily"`
	Days         []int  `json:"days"             validate:"dive,min=0,max=6"`
	Time         string `json:"time"             validate:"required"`
	NotifyBefore bool   `json:"is_notify_before"`
	NotifyAfter  bool   `json:"is_notify_after"`
}

// UpdateTriggerRequest represents the request body for updating a
// trigger's schedule. The workflow binding cannot be changed.
type UpdateTriggerRequest struct {
	ScheduleType string `json:"schedule_type"    validate:"required,oneof=weekly daily"`
	Days         []int  `json:"days"             validate:"dive,min=0,max=6"`
	Time         string `json:"time"             validate:"required"`
	NotifyBefore bool   `json:"is_notify_before"`
	NotifyAfter  bool   `json:"is_notify_after"`
}

// CreateWorkflowRequest represents the request body for registering a workflow.
type CreateWorkflowRequest struct {
	Name        string `json:"name"        validate:"required,min=3"`
	Description string `json:"description"`
}

func triggerData(workflowID, scheduleType string, days []int, timeOfDay string, notifyBefore, notifyAfter bool) (models.TriggerData, error) {
	parsed, err := models.ParseTimeOfDay(timeOfDay)
	if err != nil {
		return models.TriggerData{}, fmt.Errorf("invalid time %q: %w", timeOfDay, err)
	}

	weekdays := make([]models.Weekday, 0, len(days))
	for _, day := range days {
		weekdays = append(weekdays, models.Weekday(day))
	}

	return models.TriggerData{
		WorkflowID:   workflowID,
		ScheduleType: models.ScheduleType(scheduleType),
		Days:         weekdays,
		Time:         parsed,
		NotifyBefore: notifyBefore,
		NotifyAfter:  notifyAfter,
	}, nil
}

// TriggerData converts the request into the validated service input.
func (r CreateTriggerRequest) TriggerData() (models.TriggerData, error) {
	return triggerData(r.WorkflowID, r.ScheduleType, r.Days, r.Time, r.NotifyBefore, r.NotifyAfter)
}

// TriggerData converts the request into the validated service input.
func (r UpdateTriggerRequest) TriggerData() (models.TriggerData, error) {
	return triggerData("", r.ScheduleType, r.Days, r.Time, r.NotifyBefore, r.NotifyAfter)
}

// StatusResponse is the derived execution status of a trigger.
type StatusResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// TriggerResponse is the API representation of a trigger, enriched with
// the derived presentation fields clients would otherwise recompute.
type TriggerResponse struct {
	ID           string `json:"ts_id"`
	WorkflowID   string `json:"wf_id"`
	WorkflowName string `json:"workflow_name,omitempty"`
	Description  string `json:"description,omitempty"`

	ScheduleType   string `json:"schedule_type"`
	Days           []int  `json:"days"`
	Time           string `json:"time"`
	CronExpression string `json:"cron_expression"`

	NotifyBefore bool `json:"is_notify_before"`
	NotifyAfter  bool `json:"is_notify_after"`
	Active       bool `json:"is_active"`

	TimeType            string         `json:"time_type"`
	TimeTypeLabel       string         `json:"time_type_label"`
	DaysLabel           string         `json:"days_label"`
	NextRunAt           *time.Time     `json:"next_run_at"`
	Status              StatusResponse `json:"status"`
	MaintenanceConflict bool           `json:"maintenance_conflict"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TransformTriggerResponse derives the presentation fields at the given
// instant.
func TransformTriggerResponse(t *models.Trigger, now time.Time) TriggerResponse {
	schedule := t.Schedule()
	timeType := schedule.TimeType()
	status := t.Status(now)

	days := make([]int, 0, len(t.Days))
	for _, day := range t.Days {
		days = append(days, int(day))
	}

	response := TriggerResponse{
		ID:                  t.ID,
		WorkflowID:          t.WorkflowID,
		WorkflowName:        t.WorkflowName,
		Description:         t.Description,
		ScheduleType:        string(t.ScheduleType),
		Days:                days,
		Time:                t.Time.String(),
		CronExpression:      t.CronExpression,
		NotifyBefore:        t.NotifyBefore,
		NotifyAfter:         t.NotifyAfter,
		Active:              t.Active,
		TimeType:            string(timeType),
		TimeTypeLabel:       timeType.Label(),
		DaysLabel:           schedule.DaysLabel(),
		Status:              StatusResponse{Type: string(status.Type), Message: status.Message},
		MaintenanceConflict: models.HasMaintenanceConflict(schedule),
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}

	if next, ok := t.NextRun(now); ok {
		response.NextRunAt = &next
	}

	return response
}

// TransformTriggerResponses maps a listing with one shared now, so all
// rows are classified against the same instant.
func TransformTriggerResponses(triggers []*models.Trigger, now time.Time) []TriggerResponse {
	responses := make([]TriggerResponse, 0, len(triggers))
	for _, trigger := range triggers {
		responses = append(responses, TransformTriggerResponse(trigger, now))
	}

	return responses
}

// TimeTypeResponse describes one time-of-day bucket.
type TimeTypeResponse struct {
	Type             string   `json:"type"`
	Label            string   `json:"label"`
	StartMinute      int      `json:"start_minute"`
	EndMinute        int      `json:"end_minute"`
	RecommendedSlots []string `json:"recommended_slots"`
}

// TransformTimeTypeResponses renders the bucket catalog for the API.
func TransformTimeTypeResponses(types []models.TimeType) []TimeTypeResponse {
	responses := make([]TimeTypeResponse, 0, len(types))

	for _, timeType := range types {
		r, ok := timeType.Range()
		if !ok {
			continue
		}

		slots := timeType.RecommendedSlots()

		formatted := make([]string, 0, len(slots))
		for _, slot := range slots {
			formatted = append(formatted, slot.String())
		}

		responses = append(responses, TimeTypeResponse{
			Type:             string(timeType),
			Label:            r.Label,
			StartMinute:      r.Start,
			EndMinute:        r.End,
			RecommendedSlots: formatted,
		})
	}

	return responses
}
