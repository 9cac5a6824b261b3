// Package redis provides Redis persistence implementation for trigger
// schedules and the workflow registry. Entities are stored as JSON
// strings with secondary index sets and a workflow ownership hash that
// backs the one-trigger-per-workflow constraint.
package redis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/dukex/tempo/pkg/persistence"
)

// Persistence implements the persistence layer for Redis.
type Persistence struct {
	client       *redis.Client
	logger       *slog.Logger
	triggerRepo  *TriggerRepository
	workflowRepo *WorkflowRepository
}

// NewPersistence creates a new Redis persistence layer from a redis:// URL.
func NewPersistence(ctx context.Context, logger *slog.Logger, redisURL string) (*Persistence, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(options)

	err = client.Ping(ctx).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Persistence{
		client:       client,
		logger:       logger,
		triggerRepo:  NewTriggerRepository(client),
		workflowRepo: NewWorkflowRepository(client),
	}, nil
}

// TriggerRepository returns the trigger schedule repository.
func (p *Persistence) TriggerRepository() persistence.TriggerRepository {
	return p.triggerRepo
}

// WorkflowRepository returns the workflow registry repository.
func (p *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return p.workflowRepo
}

// HealthCheck verifies the Redis connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.client.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}

	return nil
}

// Close closes the Redis connection.
func (p *Persistence) Close(_ context.Context) error {
	err := p.client.Close()
	if err != nil {
		return fmt.Errorf("failed to close Redis connection: %w", err)
	}

	return nil
}
