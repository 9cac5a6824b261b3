package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dukex/tempo/pkg/models"
	"github.com/dukex/tempo/pkg/persistence"
)

const uniqueViolationCode = "23505"

// TriggerRepository handles trigger schedule database operations.
type TriggerRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewTriggerRepository creates a new trigger repository.
func NewTriggerRepository(db *sql.DB, logger *slog.Logger) *TriggerRepository {
	return &TriggerRepository{db: db, logger: logger}
}

const triggerColumns = `
	id
  , workflow_id
  , schedule_type
  , days
  , run_at
  , cron_expression
  , is_notify_before
  , is_notify_after
  , is_active
  , created_at
  , updated_at
`

// List returns triggers matching the options, newest first, each joined
// with its workflow's display fields.
func (r *TriggerRepository) List(ctx context.Context, opts persistence.ListTriggersOptions) ([]*models.Trigger, error) {
	query := `
		SELECT
			t.id
		  , t.workflow_id
		  , t.schedule_type
		  , t.days
		  , t.run_at
		  , t.cron_expression
		  , t.is_notify_before
		  , t.is_notify_after
		  , t.is_active
		  , t.created_at
		  , t.updated_at
		  , COALESCE(w.name, '')
		  , COALESCE(w.description, '')
		FROM trigger_schedules t
		LEFT JOIN workflows w ON w.id = t.workflow_id
		WHERE 1=1
	`

	args := make([]any, 0, 2)

	if opts.WorkflowID != "" {
		args = append(args, opts.WorkflowID)
		query += fmt.Sprintf(" AND t.workflow_id = $%d", len(args))
	}

	if opts.ActiveOnly != nil {
		args = append(args, *opts.ActiveOnly)
		query += fmt.Sprintf(" AND t.is_active = $%d", len(args))
	}

	query += " ORDER BY t.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query triggers: %w", err)
	}

	defer func(ctx context.Context, r *TriggerRepository) {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}(ctx, r)

	triggers := make([]*models.Trigger, 0)

	for rows.Next() {
		trigger, err := scanTriggerJoined(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trigger: %w", err)
		}

		triggers = append(triggers, trigger)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating triggers: %w", err)
	}

	return triggers, nil
}

// GetByID returns a trigger by its ID, or (nil, nil) when absent.
func (r *TriggerRepository) GetByID(ctx context.Context, id string) (*models.Trigger, error) {
	query := `SELECT` + triggerColumns + `FROM trigger_schedules WHERE id = $1`

	trigger, err := scanTrigger(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to scan trigger: %w", err)
	}

	return trigger, nil
}

// GetByWorkflowID returns the trigger owned by a workflow, or (nil, nil)
// when the workflow has none.
func (r *TriggerRepository) GetByWorkflowID(ctx context.Context, workflowID string) (*models.Trigger, error) {
	query := `SELECT` + triggerColumns + `FROM trigger_schedules WHERE workflow_id = $1`

	trigger, err := scanTrigger(r.db.QueryRowContext(ctx, query, workflowID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to scan trigger: %w", err)
	}

	return trigger, nil
}

// Save upserts the trigger, assigning a UUIDv7 when it has no ID. The
// unique index on workflow_id surfaces as ErrTriggerAlreadyExists.
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

	daysJSON, err := json.Marshal(trigger.Days)
	if err != nil {
		return fmt.Errorf("failed to marshal days: %w", err)
	}

	query := `
		INSERT INTO trigger_schedules (
			id, workflow_id, schedule_type, days, run_at, cron_expression,
			is_notify_before, is_notify_after, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			schedule_type = EXCLUDED.schedule_type,
			days = EXCLUDED.days,
			run_at = EXCLUDED.run_at,
			cron_expression = EXCLUDED.cron_expression,
			is_notify_before = EXCLUDED.is_notify_before,
			is_notify_after = EXCLUDED.is_notify_after,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		trigger.ID,
		trigger.WorkflowID,
		trigger.ScheduleType,
		daysJSON,
		trigger.Time.String(),
		trigger.CronExpression,
		trigger.NotifyBefore,
		trigger.NotifyAfter,
		trigger.Active,
		trigger.CreatedAt,
		trigger.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
			return persistence.NewTriggerWorkflowError("Save", trigger.WorkflowID, persistence.ErrTriggerAlreadyExists)
		}

		return fmt.Errorf("failed to save trigger: %w", err)
	}

	return nil
}

// Delete removes the trigger row permanently.
func (r *TriggerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM trigger_schedules WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete trigger: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}

	if affected == 0 {
		return persistence.NewTriggerError("Delete", id, persistence.ErrTriggerNotFound)
	}

	return nil
}

// WorkflowIDsWithTriggers returns the workflow IDs occupied by a
// retained trigger, active or not.
func (r *TriggerRepository) WorkflowIDsWithTriggers(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT workflow_id FROM trigger_schedules")
	if err != nil {
		return nil, fmt.Errorf("failed to query trigger workflow IDs: %w", err)
	}

	defer func(ctx context.Context, r *TriggerRepository) {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}(ctx, r)

	ids := make([]string, 0)

	for rows.Next() {
		var id string

		err := rows.Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow ID: %w", err)
		}

		ids = append(ids, id)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating workflow IDs: %w", err)
	}

	return ids, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrigger(row rowScanner) (*models.Trigger, error) {
	var (
		trigger  models.Trigger
		daysJSON []byte
		runAt    string
	)

	err := row.Scan(
		&trigger.ID,
		&trigger.WorkflowID,
		&trigger.ScheduleType,
		&daysJSON,
		&runAt,
		&trigger.CronExpression,
		&trigger.NotifyBefore,
		&trigger.NotifyAfter,
		&trigger.Active,
		&trigger.CreatedAt,
		&trigger.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return hydrateTrigger(&trigger, daysJSON, runAt)
}

func scanTriggerJoined(row rowScanner) (*models.Trigger, error) {
	var (
		trigger  models.Trigger
		daysJSON []byte
		runAt    string
	)

	err := row.Scan(
		&trigger.ID,
		&trigger.WorkflowID,
		&trigger.ScheduleType,
		&daysJSON,
		&runAt,
		&trigger.CronExpression,
		&trigger.NotifyBefore,
		&trigger.NotifyAfter,
		&trigger.Active,
		&trigger.CreatedAt,
		&trigger.UpdatedAt,
		&trigger.WorkflowName,
		&trigger.Description,
	)
	if err != nil {
		return nil, err
	}

	return hydrateTrigger(&trigger, daysJSON, runAt)
}

func hydrateTrigger(trigger *models.Trigger, daysJSON []byte, runAt string) (*models.Trigger, error) {
	err := json.Unmarshal(daysJSON, &trigger.Days)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal days: %w", err)
	}

	trigger.Time, err = models.ParseTimeOfDay(runAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run time %q: %w", runAt, err)
	}

	return trigger, nil
}
