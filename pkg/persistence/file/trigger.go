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

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// TriggerRepository handles trigger-related file operations.
type TriggerRepository struct {
	root string
}

// NewTriggerRepository creates a new trigger repository.
func NewTriggerRepository(root string) *TriggerRepository {
	return &TriggerRepository{root: root}
}

func (tr *TriggerRepository) dir() string {
	return path.Join(tr.root, "triggers")
}

func (tr *TriggerRepository) filePath(id string) string {
	return path.Join(tr.dir(), id+".json")
}

func (tr *TriggerRepository) loadAll(ctx context.Context) ([]*models.Trigger, error) {
	if _, err := os.Stat(tr.dir()); os.IsNotExist(err) {
		return make([]*models.Trigger, 0), nil
	}

	jsonFiles, err := fs.Glob(os.DirFS(tr.dir()), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list trigger files: %w", err)
	}

	triggers := make([]*models.Trigger, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		trigger, err := tr.GetByID(ctx, file[:len(file)-5])
		if err != nil {
			return nil, err
		}

		if trigger != nil {
			triggers = append(triggers, trigger)
		}
	}

	return triggers, nil
}

// List returns triggers matching the options, newest first.
func (tr *TriggerRepository) List(ctx context.Context, opts persistence.ListTriggersOptions) ([]*models.Trigger, error) {
	all, err := tr.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]*models.Trigger, 0, len(all))

	for _, trigger := range all {
		if opts.WorkflowID != "" && trigger.WorkflowID != opts.WorkflowID {
			continue
		}

		if opts.ActiveOnly != nil && trigger.Active != *opts.ActiveOnly {
			continue
		}

		filtered = append(filtered, trigger)
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	return filtered, nil
}

// GetByID returns a trigger by its ID, or (nil, nil) when absent.
func (tr *TriggerRepository) GetByID(_ context.Context, id string) (*models.Trigger, error) {
	data, err := os.ReadFile(tr.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read trigger file: %w", err)
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
func (tr *TriggerRepository) GetByWorkflowID(ctx context.Context, workflowID string) (*models.Trigger, error) {
	all, err := tr.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, trigger := range all {
		if trigger.WorkflowID == workflowID {
			return trigger, nil
		}
	}

	return nil, nil
}

// Save upserts the trigger, assigning a UUIDv7 when it has no ID. A
// different trigger already owning the workflow is rejected with
// ErrTriggerAlreadyExists.
func (tr *TriggerRepository) Save(ctx context.Context, trigger *models.Trigger) error {
	existing, err := tr.GetByWorkflowID(ctx, trigger.WorkflowID)
	if err != nil {
		return err
	}

	if existing != nil && existing.ID != trigger.ID {
		return persistence.NewTriggerWorkflowError("Save", trigger.WorkflowID, persistence.ErrTriggerAlreadyExists)
	}

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

	err = os.MkdirAll(tr.dir(), dirPerm)
	if err != nil {
		return fmt.Errorf("failed to create triggers directory: %w", err)
	}

	data, err := json.MarshalIndent(trigger, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal trigger: %w", err)
	}

	err = os.WriteFile(tr.filePath(trigger.ID), data, filePerm)
	if err != nil {
		return fmt.Errorf("failed to write trigger file: %w", err)
	}

	return nil
}

// Delete removes the trigger file permanently.
func (tr *TriggerRepository) Delete(_ context.Context, id string) error {
	err := os.Remove(tr.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return persistence.NewTriggerError("Delete", id, persistence.ErrTriggerNotFound)
		}

		return fmt.Errorf("failed to delete trigger file: %w", err)
	}

	return nil
}

// WorkflowIDsWithTriggers returns the workflow IDs occupied by a
// retained trigger, active or not.
func (tr *TriggerRepository) WorkflowIDsWithTriggers(ctx context.Context) ([]string, error) {
	all, err := tr.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(all))
	for _, trigger := range all {
		ids = append(ids, trigger.WorkflowID)
	}

	return ids, nil
}
