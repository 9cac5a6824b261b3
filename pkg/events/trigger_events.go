package events

// TriggerCreatedEvent is published when a trigger is created for a workflow.
type TriggerCreatedEvent struct {
	BaseEvent

	TriggerID      string `json:"trigger_id"`
	CronExpression string `json:"cron_expression"`
}

func (e TriggerCreatedEvent) GetType() EventType {
	return TriggerCreatedEventType
}

// NewTriggerCreatedEvent creates a new trigger created event.
func NewTriggerCreatedEvent(workflowID, triggerID, cronExpression string) TriggerCreatedEvent {
	return TriggerCreatedEvent{
		BaseEvent:      NewBaseEvent(TriggerCreatedEventType, workflowID),
		TriggerID:      triggerID,
		CronExpression: cronExpression,
	}
}

// TriggerUpdatedEvent is published when a trigger's schedule changes.
type TriggerUpdatedEvent struct {
	BaseEvent

	TriggerID      string `json:"trigger_id"`
	CronExpression string `json:"cron_expression"`
}

func (e TriggerUpdatedEvent) GetType() EventType {
	return TriggerUpdatedEventType
}

// NewTriggerUpdatedEvent creates a new trigger updated event.
func NewTriggerUpdatedEvent(workflowID, triggerID, cronExpression string) TriggerUpdatedEvent {
	return TriggerUpdatedEvent{
		BaseEvent:      NewBaseEvent(TriggerUpdatedEventType, workflowID),
		TriggerID:      triggerID,
		CronExpression: cronExpression,
	}
}

// TriggerToggledEvent is published when a trigger is activated or
// deactivated, including soft deletion.
type TriggerToggledEvent struct {
	BaseEvent

	TriggerID string `json:"trigger_id"`
	Active    bool   `json:"is_active"`
}

func (e TriggerToggledEvent) GetType() EventType {
	return TriggerToggledEventType
}

// NewTriggerToggledEvent creates a new trigger toggled event.
func NewTriggerToggledEvent(workflowID, triggerID string, active bool) TriggerToggledEvent {
	return TriggerToggledEvent{
		BaseEvent: NewBaseEvent(TriggerToggledEventType, workflowID),
		TriggerID: triggerID,
		Active:    active,
	}
}

// TriggerDeletedEvent is published when a trigger row is removed
// permanently.
type TriggerDeletedEvent struct {
	BaseEvent

	TriggerID string `json:"trigger_id"`
}

func (e TriggerDeletedEvent) GetType() EventType {
	return TriggerDeletedEventType
}

// NewTriggerDeletedEvent creates a new trigger deleted event.
func NewTriggerDeletedEvent(workflowID, triggerID string) TriggerDeletedEvent {
	return TriggerDeletedEvent{
		BaseEvent: NewBaseEvent(TriggerDeletedEventType, workflowID),
		TriggerID: triggerID,
	}
}
