// Package events defines event types and structures for trigger
// lifecycle notifications.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Topic is the event stream all trigger lifecycle events are published to.
const Topic = "tempo.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	TriggerCreatedEventType EventType = "trigger.created"
	TriggerUpdatedEventType EventType = "trigger.updated"
	TriggerToggledEventType EventType = "trigger.toggled"
	TriggerDeletedEventType EventType = "trigger.deleted"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	WorkflowID string         `json:"workflow_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func NewBaseEvent(eventType EventType, workflowID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
		Metadata:   make(map[string]any),
	}
}
