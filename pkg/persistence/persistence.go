// Package persistence provides the data storage abstraction layer for
// triggers and the workflow registry.
package persistence

import (
	"context"

	"github.com/dukex/tempo/pkg/models"
)

// ListTriggersOptions filters trigger listings. The zero value lists
// everything.
type ListTriggersOptions struct {
	// WorkflowID restricts the listing to triggers of one workflow.
	WorkflowID string

	// ActiveOnly, when set, keeps only triggers matching the given
	// activity state.
	ActiveOnly *bool
}

// TriggerRepository stores trigger schedules. Lookups return (nil, nil)
// when no row matches; callers translate that into their own not-found
// error.
type TriggerRepository interface {
	List(ctx context.Context, opts ListTriggersOptions) ([]*models.Trigger, error)
	GetByID(ctx context.Context, id string) (*models.Trigger, error)
	GetByWorkflowID(ctx context.Context, workflowID string) (*models.Trigger, error)

	// Save upserts the trigger, assigning an ID when it has none. It
	// returns ErrTriggerAlreadyExists when another trigger already owns
	// the workflow.
	Save(ctx context.Context, trigger *models.Trigger) error

	// Delete removes the row permanently. Soft deletion is a Save with
	// Active=false.
	Delete(ctx context.Context, id string) error

	// WorkflowIDsWithTriggers returns the IDs of every workflow that has
	// a retained trigger, active or not.
	WorkflowIDsWithTriggers(ctx context.Context) ([]string, error)
}

// WorkflowRepository stores the workflow registry entries triggers
// point at.
type WorkflowRepository interface {
	List(ctx context.Context) ([]*models.Workflow, error)
	GetByID(ctx context.Context, id string) (*models.Workflow, error)
	Save(ctx context.Context, workflow *models.Workflow) error
	Delete(ctx context.Context, id string) error
}

// Persistence is the storage backend contract. Implementations exist
// for PostgreSQL, Redis, and JSON files.
type Persistence interface {
	TriggerRepository() TriggerRepository
	WorkflowRepository() WorkflowRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
