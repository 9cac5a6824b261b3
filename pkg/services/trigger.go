package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dukex/tempo/pkg/cron"
	"github.com/dukex/tempo/pkg/eventbus"
	"github.com/dukex/tempo/pkg/events"
	"github.com/dukex/tempo/pkg/models"
	"github.com/dukex/tempo/pkg/otelhelper"
	"github.com/dukex/tempo/pkg/persistence"
)

// Trigger is the lifecycle manager for workflow trigger schedules. All
// mutations validate first, enforce the one-trigger-per-workflow
// invariant, keep the stored cron expression in sync with the schedule
// fields, and publish a lifecycle event on success.
type Trigger struct {
	persistence persistence.Persistence
	eventBus    eventbus.EventPublisher
	tracer      trace.Tracer
}

// NewTrigger creates a new trigger service.
func NewTrigger(p persistence.Persistence, bus eventbus.EventPublisher, tracer trace.Tracer) *Trigger {
	return &Trigger{
		persistence: p,
		eventBus:    bus,
		tracer:      tracer,
	}
}

// HealthCheck checks the health of the persistence layer.
func (s *Trigger) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := s.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// ListTriggersRequest contains options for listing triggers.
type ListTriggersRequest struct {
	WorkflowID string
	ActiveOnly *bool
}

// List retrieves triggers matching the request, newest first.
func (s *Trigger) List(ctx context.Context, req ListTriggersRequest) ([]*models.Trigger, error) {
	opts := persistence.ListTriggersOptions{
		WorkflowID: req.WorkflowID,
		ActiveOnly: req.ActiveOnly,
	}

	triggers, err := s.persistence.TriggerRepository().List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list triggers: %w", err)
	}

	return triggers, nil
}

// GetByID retrieves a trigger by its ID.
func (s *Trigger) GetByID(ctx context.Context, id string) (*models.Trigger, error) {
	trigger, err := s.persistence.TriggerRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get trigger: %w", err)
	}

	if trigger == nil {
		return nil, persistence.NewTriggerError("GetByID", id, ErrTriggerNotFound)
	}

	return trigger, nil
}

// GetForWorkflow retrieves the trigger owned by a workflow.
func (s *Trigger) GetForWorkflow(ctx context.Context, workflowID string) (*models.Trigger, error) {
	trigger, err := s.persistence.TriggerRepository().GetByWorkflowID(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to get trigger for workflow: %w", err)
	}

	if trigger == nil {
		return nil, persistence.NewTriggerWorkflowError("GetForWorkflow", workflowID, ErrTriggerNotFound)
	}

	return trigger, nil
}

// Create validates the configuration, checks that the workflow has no
// trigger yet, and saves a new active trigger with its derived cron
// expression. The store's unique constraint backs the pre-check against
// races.
func (s *Trigger) Create(ctx context.Context, data models.TriggerData) (*models.Trigger, error) {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "trigger.create",
		attribute.String(otelhelper.WorkflowIDKey, data.WorkflowID),
		attribute.String(otelhelper.ScheduleTypeKey, string(data.ScheduleType)),
	)
	defer span.End()

	err := data.Validate(false)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	existing, err := s.persistence.TriggerRepository().GetByWorkflowID(ctx, data.WorkflowID)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to check existing trigger: %w", err)
	}

	// Soft-deleted triggers still occupy the workflow.
	if existing != nil {
		err = persistence.NewTriggerWorkflowError("Create", data.WorkflowID, ErrTriggerExists)
		otelhelper.SetError(span, err)

		return nil, err
	}

	trigger := models.NewTrigger("", data)

	trigger.CronExpression, err = cron.Encode(trigger.Schedule())
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("%w: %v", models.ErrInvalidTrigger, err)
	}

	err = s.persistence.TriggerRepository().Save(ctx, trigger)
	if err != nil {
		otelhelper.SetError(span, err)

		if persistence.IsTriggerAlreadyExists(err) {
			return nil, persistence.NewTriggerWorkflowError("Create", data.WorkflowID, ErrTriggerExists)
		}

		return nil, fmt.Errorf("failed to save trigger: %w", err)
	}

	span.SetAttributes(attribute.String(otelhelper.TriggerIDKey, trigger.ID))

	s.publish(ctx, trigger.WorkflowID,
		events.NewTriggerCreatedEvent(trigger.WorkflowID, trigger.ID, trigger.CronExpression))

	return trigger, nil
}

// Update replaces the schedule configuration of an existing trigger and
// regenerates its cron expression. Activity state is untouched.
func (s *Trigger) Update(ctx context.Context, id string, data models.TriggerData) (*models.Trigger, error) {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "trigger.update",
		attribute.String(otelhelper.TriggerIDKey, id),
	)
	defer span.End()

	err := data.Validate(true)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	trigger, err := s.GetByID(ctx, id)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	trigger.ApplySchedule(data)

	trigger.CronExpression, err = cron.Encode(trigger.Schedule())
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("%w: %v", models.ErrInvalidTrigger, err)
	}

	err = s.persistence.TriggerRepository().Save(ctx, trigger)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to save trigger: %w", err)
	}

	s.publish(ctx, trigger.WorkflowID,
		events.NewTriggerUpdatedEvent(trigger.WorkflowID, trigger.ID, trigger.CronExpression))

	return trigger, nil
}

// Toggle flips the trigger's activity state.
func (s *Trigger) Toggle(ctx context.Context, id string) (*models.Trigger, error) {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "trigger.toggle",
		attribute.String(otelhelper.TriggerIDKey, id),
	)
	defer span.End()

	trigger, err := s.GetByID(ctx, id)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	trigger.Active = !trigger.Active
	trigger.UpdatedAt = time.Now().UTC()

	err = s.persistence.TriggerRepository().Save(ctx, trigger)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to save trigger: %w", err)
	}

	s.publish(ctx, trigger.WorkflowID,
		events.NewTriggerToggledEvent(trigger.WorkflowID, trigger.ID, trigger.Active))

	return trigger, nil
}

// SoftDelete deactivates the trigger but keeps its row, so the workflow
// stays occupied and the schedule can be revived later.
func (s *Trigger) SoftDelete(ctx context.Context, id string) (*models.Trigger, error) {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "trigger.soft_delete",
		attribute.String(otelhelper.TriggerIDKey, id),
	)
	defer span.End()

	trigger, err := s.GetByID(ctx, id)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	if trigger.Active {
		trigger.Active = false
		trigger.UpdatedAt = time.Now().UTC()

		err = s.persistence.TriggerRepository().Save(ctx, trigger)
		if err != nil {
			otelhelper.SetError(span, err)

			return nil, fmt.Errorf("failed to save trigger: %w", err)
		}

		s.publish(ctx, trigger.WorkflowID,
			events.NewTriggerToggledEvent(trigger.WorkflowID, trigger.ID, false))
	}

	return trigger, nil
}

// HardDelete removes the trigger row permanently, freeing the workflow
// for a new trigger.
func (s *Trigger) HardDelete(ctx context.Context, id string) error {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "trigger.hard_delete",
		attribute.String(otelhelper.TriggerIDKey, id),
	)
	defer span.End()

	trigger, err := s.GetByID(ctx, id)
	if err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	err = s.persistence.TriggerRepository().Delete(ctx, id)
	if err != nil {
		otelhelper.SetError(span, err)

		if persistence.IsTriggerNotFound(err) {
			return persistence.NewTriggerError("HardDelete", id, ErrTriggerNotFound)
		}

		return fmt.Errorf("failed to delete trigger: %w", err)
	}

	s.publish(ctx, trigger.WorkflowID,
		events.NewTriggerDeletedEvent(trigger.WorkflowID, trigger.ID))

	return nil
}

// WorkflowsWithoutTriggers returns the registry workflows not yet
// occupied by any retained trigger, active or soft-deleted.
func (s *Trigger) WorkflowsWithoutTriggers(ctx context.Context) ([]*models.Workflow, error) {
	workflows, err := s.persistence.WorkflowRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	occupiedIDs, err := s.persistence.TriggerRepository().WorkflowIDsWithTriggers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list occupied workflows: %w", err)
	}

	occupied := make(map[string]struct{}, len(occupiedIDs))
	for _, id := range occupiedIDs {
		occupied[id] = struct{}{}
	}

	available := make([]*models.Workflow, 0, len(workflows))

	for _, workflow := range workflows {
		if _, taken := occupied[workflow.ID]; !taken {
			available = append(available, workflow)
		}
	}

	return available, nil
}

func (s *Trigger) publish(ctx context.Context, key string, event eventbus.Event) {
	if s.eventBus == nil {
		return
	}

	// Lifecycle events are best effort; the mutation already committed.
	_ = s.eventBus.Publish(ctx, key, event)
}
