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
	workflowKeyPrefix = "tempo:workflows:"
	workflowIndexKey  = "tempo:workflows"
)

// WorkflowRepository handles workflow registry operations against Redis.
type WorkflowRepository struct {
	client *redis.Client
}

// NewWorkflowRepository creates a new workflow repository.
func NewWorkflowRepository(client *redis.Client) *WorkflowRepository {
	return &WorkflowRepository{client: client}
}

func workflowKey(id string) string {
	return workflowKeyPrefix + id
}

// List returns all workflows, newest first.
func (r *WorkflowRepository) List(ctx context.Context) ([]*models.Workflow, error) {
	ids, err := r.client.SMembers(ctx, workflowIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow IDs: %w", err)
	}

	workflows := make([]*models.Workflow, 0, len(ids))

	for _, id := range ids {
		workflow, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if workflow != nil {
			workflows = append(workflows, workflow)
		}
	}

	sort.Slice(workflows, func(i, j int) bool {
		return workflows[i].CreatedAt.After(workflows[j].CreatedAt)
	})

	return workflows, nil
}

// GetByID returns a workflow by its ID, or (nil, nil) when absent.
func (r *WorkflowRepository) GetByID(ctx context.Context, id string) (*models.Workflow, error) {
	data, err := r.client.Get(ctx, workflowKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get workflow %s: %w", id, err)
	}

	var workflow models.Workflow

	err = json.Unmarshal(data, &workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal workflow %s: %w", id, err)
	}

	return &workflow, nil
}

// Save upserts the workflow, assigning a UUIDv7 when it has no ID.
func (r *WorkflowRepository) Save(ctx context.Context, workflow *models.Workflow) error {
	now := time.Now().UTC()

	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}

	workflow.UpdatedAt = now

	if workflow.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate workflow ID: %w", err)
		}

		workflow.ID = id.String()
	}

	data, err := json.Marshal(workflow)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, workflowKey(workflow.ID), data, 0)
	pipe.SAdd(ctx, workflowIndexKey, workflow.ID)

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save workflow: %w", err)
	}

	return nil
}

// Delete removes the workflow.
func (r *WorkflowRepository) Delete(ctx context.Context, id string) error {
	removed, err := r.client.SRem(ctx, workflowIndexKey, id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete workflow: %w", err)
	}

	if removed == 0 {
		return fmt.Errorf("delete workflow %s: %w", id, persistence.ErrWorkflowNotFound)
	}

	err = r.client.Del(ctx, workflowKey(id)).Err()
	if err != nil {
		return fmt.Errorf("failed to delete workflow payload: %w", err)
	}

	return nil
}
