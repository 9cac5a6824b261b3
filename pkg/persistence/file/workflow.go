package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dukex/tempo/pkg/models"
	"github.com/dukex/tempo/pkg/persistence"
)

// WorkflowRepository handles workflow-related file operations.
type WorkflowRepository struct {
	root string
}

// NewWorkflowRepository creates a new workflow repository.
func NewWorkflowRepository(root string) *WorkflowRepository {
	return &WorkflowRepository{root: root}
}

func (wr *WorkflowRepository) dir() string {
	return path.Join(wr.root, "workflows")
}

func (wr *WorkflowRepository) filePath(id string) string {
	return path.Join(wr.dir(), id+".json")
}

// List returns all workflows, newest first.
func (wr *WorkflowRepository) List(ctx context.Context) ([]*models.Workflow, error) {
	if _, err := os.Stat(wr.dir()); os.IsNotExist(err) {
		return make([]*models.Workflow, 0), nil
	}

	jsonFiles, err := fs.Glob(os.DirFS(wr.dir()), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow files: %w", err)
	}

	workflows := make([]*models.Workflow, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		workflow, err := wr.GetByID(ctx, file[:len(file)-5])
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
func (wr *WorkflowRepository) GetByID(_ context.Context, id string) (*models.Workflow, error) {
	data, err := os.ReadFile(wr.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read workflow file: %w", err)
	}

	var workflow models.Workflow

	err = json.Unmarshal(data, &workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal workflow %s: %w", id, err)
	}

	return &workflow, nil
}

// Save upserts the workflow, assigning a UUIDv7 when it has no ID.
func (wr *WorkflowRepository) Save(_ context.Context, workflow *models.Workflow) error {
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

	err := os.MkdirAll(wr.dir(), dirPerm)
	if err != nil {
		return fmt.Errorf("failed to create workflows directory: %w", err)
	}

	data, err := json.MarshalIndent(workflow, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal workflow: %w", err)
	}

	err = os.WriteFile(wr.filePath(workflow.ID), data, filePerm)
	if err != nil {
		return fmt.Errorf("failed to write workflow file: %w", err)
	}

	return nil
}

// Delete removes the workflow file.
func (wr *WorkflowRepository) Delete(_ context.Context, id string) error {
	err := os.Remove(wr.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("delete workflow %s: %w", id, persistence.ErrWorkflowNotFound)
		}

		return fmt.Errorf("failed to delete workflow file: %w", err)
	}

	return nil
}
