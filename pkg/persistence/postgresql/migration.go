package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Workflow registry entries triggers point at
			CREATE TABLE workflows (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				is_active BOOLEAN NOT NULL DEFAULT TRUE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_workflows_is_active ON workflows(is_active);
			CREATE INDEX idx_workflows_created_at ON workflows(created_at);

			-- Trigger schedules; soft-deleted triggers stay as rows with
			-- is_active = FALSE, so the unique index covers them too and a
			-- workflow keeps at most one trigger ever.
			CREATE TABLE trigger_schedules (
				id UUID PRIMARY KEY,
				workflow_id UUID NOT NULL,
				schedule_type VARCHAR(20) NOT NULL CHECK (schedule_type IN ('weekly', 'daily')),
				days JSONB NOT NULL DEFAULT '[]',
				run_at VARCHAR(8) NOT NULL,
				cron_expression VARCHAR(100) NOT NULL DEFAULT '',
				is_notify_before BOOLEAN NOT NULL DEFAULT FALSE,
				is_notify_after BOOLEAN NOT NULL DEFAULT FALSE,
				is_active BOOLEAN NOT NULL DEFAULT TRUE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE UNIQUE INDEX idx_trigger_schedules_workflow_id ON trigger_schedules(workflow_id);
			CREATE INDEX idx_trigger_schedules_is_active ON trigger_schedules(is_active);
			CREATE INDEX idx_trigger_schedules_created_at ON trigger_schedules(created_at);
		`,
	}
}
