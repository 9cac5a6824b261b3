// Package persistence provides standardized error types for persistence
// operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrTriggerNotFound indicates a trigger was not found by the given identifier.
	ErrTriggerNotFound = errors.New("trigger not found")

	// ErrTriggerAlreadyExists indicates the workflow already has a trigger.
	ErrTriggerAlreadyExists = errors.New("trigger already exists for workflow")

	// ErrWorkflowNotFound indicates a workflow was not found by the given identifier.
	ErrWorkflowNotFound = errors.New("workflow not found")
)

// TriggerError wraps trigger-related errors with additional context.
type TriggerError struct {
	Op         string // Operation being performed (e.g., "GetByID", "Save", "Delete")
	TriggerID  string // Trigger ID if applicable
	WorkflowID string // Workflow ID if applicable
	Err        error  // Underlying error
}

func (e *TriggerError) Error() string {
	target := e.TriggerID
	if target == "" && e.WorkflowID != "" {
		target = fmt.Sprintf("workflow %s", e.WorkflowID)
	}

	return fmt.Sprintf("%s operation failed for trigger %s: %v", e.Op, target, e.Err)
}

func (e *TriggerError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for trigger errors.
func (e *TriggerError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewTriggerError creates a new trigger error with context.
func NewTriggerError(op, triggerID string, err error) *TriggerError {
	return &TriggerError{
		Op:        op,
		TriggerID: triggerID,
		Err:       err,
	}
}

// NewTriggerWorkflowError creates a trigger error for workflow-scoped operations.
func NewTriggerWorkflowError(op, workflowID string, err error) *TriggerError {
	return &TriggerError{
		Op:         op,
		WorkflowID: workflowID,
		Err:        err,
	}
}

// IsTriggerNotFound checks if an error indicates a trigger was not found.
func IsTriggerNotFound(err error) bool {
	return errors.Is(err, ErrTriggerNotFound)
}

// IsTriggerAlreadyExists checks if an error indicates a duplicate trigger.
func IsTriggerAlreadyExists(err error) bool {
	return errors.Is(err, ErrTriggerAlreadyExists)
}

// IsWorkflowNotFound checks if an error indicates a workflow was not found.
func IsWorkflowNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound)
}
