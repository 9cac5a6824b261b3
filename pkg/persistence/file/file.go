// Package file provides file-based persistence implementation for
// trigger schedules and the workflow registry. Each entity is one JSON
// document under the root directory. Intended for local development and
// tests.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/dukex/tempo/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the file system.
type Persistence struct {
	root         string
	triggerRepo  *TriggerRepository
	workflowRepo *WorkflowRepository
}

// NewPersistence creates a new instance of Persistence with the specified root directory.
func NewPersistence(root string) persistence.Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:         cleanRoot,
		triggerRepo:  NewTriggerRepository(cleanRoot),
		workflowRepo: NewWorkflowRepository(cleanRoot),
	}
}

// TriggerRepository returns the trigger repository implementation for file persistence.
func (fp *Persistence) TriggerRepository() persistence.TriggerRepository {
	return fp.triggerRepo
}

// WorkflowRepository returns the workflow repository implementation for file persistence.
func (fp *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return fp.workflowRepo
}

// HealthCheck checks if the file persistence layer is healthy by verifying the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}
