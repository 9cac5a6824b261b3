package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/dukex/tempo/pkg/models"
	"github.com/dukex/tempo/pkg/persistence"
)

// Workflow is the registry service triggers point at.
type Workflow struct {
	persistence persistence.Persistence
	validator   *validator.Validate
}

// NewWorkflow creates a new workflow service.
func NewWorkflow(p persistence.Persistence) *Workflow {
	return &Workflow{
		persistence: p,
		validator:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

// List retrieves all registry workflows, newest first.
func (s *Workflow) List(ctx context.Context) ([]*models.Workflow, error) {
	workflows, err := s.persistence.WorkflowRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	return workflows, nil
}

// GetByID retrieves a workflow by its ID.
func (s *Workflow) GetByID(ctx context.Context, id string) (*models.Workflow, error) {
	workflow, err := s.persistence.WorkflowRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}

	if workflow == nil {
		return nil, fmt.Errorf("workflow %s: %w", id, ErrWorkflowNotFound)
	}

	return workflow, nil
}

// Create validates and registers a new workflow.
func (s *Workflow) Create(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	err := s.validator.Struct(workflow)
	if err != nil {
		return nil, NewValidationError("Create", "INVALID_WORKFLOW", err.Error(), ErrInvalidRequest)
	}

	err = s.persistence.WorkflowRepository().Save(ctx, workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	return workflow, nil
}
