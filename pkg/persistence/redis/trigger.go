package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dukex/tempo/pkg/models"
	"github.com/dukex/tempo/pkg/persistence"
)

const (
	triggerKeyPrefix     = "tempo:triggers:"
	triggerIndexKey      = "tempo:triggers"
	triggerByWorkflowKey = "tempo:triggers_by_workflow"
)

// TriggerRepository handles trigger schedule operations against Redis.
type TriggerRepository struct {
	client *redis.Client
}

// NewTriggerRepository creates a new trigger repository.
func NewTriggerRepository(client *redis.Client) *TriggerRepository {
	return &TriggerRepository{client: client}
}

func triggerKey(id string) string {
	return triggerKeyPrefix + id
}

// List returns triggers matching the options, newest first.
func (r *TriggerRepository) List(ctx context.Context, opts persistence.ListTriggersOptions) ([]*models.Trigger, error) {
	ids, err := r.client.SMembers(ctx, triggerIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list trigger IDs: %w", err)
	}

	triggers := make([]*models.Trigger, 0, len(ids))

	for _, id := range ids {
		trigger, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if trigger == nil {
			continue
		}

		if opts.WorkflowID != "" && trigger.WorkflowID != opts.WorkflowID {
			continue
		}

		if opts.ActiveOnly != nil && trigger.Active != *opts.ActiveOnly {
			continue
		}

		triggers = append(triggers, trigger)
	}

	sort.Slice(triggers, func(i, j int) bool {
		return triggers[i].CreatedAt.After(triggers[j].CreatedAt)
	})

	return triggers, nil
}

// GetByID returns a trigger by its ID, or (nil, nil) when absent.
func (r *TriggerRepository) GetByID(ctx context.Context, id string) (*models.Trigger, error) {
	data, err := r.client.Get(ctx, triggerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get trigger %s: %w", id, err)
	}

	var trigger models.Trigger

	err = json.Unmarshal(data, &trigger)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal trigger %s: %w", id, err)
	}

	return &trigger, nil
}

// GetByWorkflowID returns the trigger owned by a workflow, or (nil, nil)
// when the workflow has none.
func (r *TriggerRepository) GetByWorkflowID(ctx context.Context, workflowID string) (*models.Trigger, error) {
	id, err := r.client.HGet(ctx, triggerByWorkflowKey, workflowID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to look up trigger for workflow %s: %w", workflowID, err)
	}

	return r.GetByID(ctx, id)
}

// Save upserts the trigger, assigning a UUIDv7 when it has no ID. The
// workflow ownership hash enforces one trigger per workflow: HSETNX
// claims the slot atomically, so a concurrent duplicate loses.
func (r *TriggerRepository) Save(ctx context.Context, trigger *models.Trigger) error {
	now := time.Now().UTC()

	if trigger.CreatedAt.IsZero() {
		trigger.CreatedAt = now
	}

	trigger.UpdatedAt = now

	if trigger.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate trigger ID: %w", err)
		}

		trigger.ID = id.String()
	}

	claimed, err := r.client.HSetNX(ctx, triggerByWorkflowKey, trigger.WorkflowID, trigger.ID).Result()
	if err != nil {
		return fmt.Errorf("failed to claim workflow slot: %w", err)
	}

	if !claimed {
		owner, err := r.client.HGet(ctx, triggerByWorkflowKey, trigger.WorkflowID).Result()
		if err != nil {
			return fmt.Errorf("failed to read workflow slot owner: %w", err)
		}

		if owner != trigger.ID {
			return persistence.NewTriggerWorkflowError("Save", trigger.WorkflowID, persistence.ErrTriggerAlreadyExists)
		}
	}

	data, err := json.Marshal(trigger)
	if err != nil {
		return fmt.Errorf("failed to marshal trigger: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, triggerKey(trigger.ID), data, 0)
	pipe.SAdd(ctx, triggerIndexKey, trigger.ID)

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save trigger: %w", err)
	}

	return nil
}

// Delete removes the trigger and releases its workflow slot.
func (r *TriggerRepository) Delete(ctx context.Context, id string) error {
	trigger, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if trigger == nil {
		return persistence.NewTriggerError("Delete", id, persistence.ErrTriggerNotFound)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, triggerKey(id))
	pipe.SRem(ctx, triggerIndexKey, id)
	pipe.HDel(ctx, triggerByWorkflowKey, trigger.WorkflowID)

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete trigger: %w", err)
	}

	return nil
}

// WorkflowIDsWithTriggers returns the workflow IDs occupied by a
// retained trigger, active or not.
func (r *TriggerRepository) WorkflowIDsWithTriggers(ctx context.Context) ([]string, error) {
	ids, err := r.client.HKeys(ctx, triggerByWorkflowKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list occupied workflows: %w", err)
	}

	return ids, nil
}
