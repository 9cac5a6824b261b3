package models

import "time"

// Workflow is the registry entry a trigger points at. The registry is an
// external collaborator; this model carries only what the scheduling
// engine needs: identity, display fields, and the active flag.
type Workflow struct {
	ID          string    `json:"wf_id"`
	Name        string    `json:"name"        validate:"required,min=3"`
	Description string    `json:"description"`
	Active      bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
