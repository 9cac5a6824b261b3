package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/tempo/pkg/models"
)

func TestTriggerDataValidate(t *testing.T) {
	valid := models.TriggerData{
		WorkflowID:   "wf-1",
		ScheduleType: models.ScheduleTypeWeekly,
		Days:         []models.Weekday{models.Monday},
		Time:         models.MustTimeOfDay(9, 0, 0),
	}

	tests := []struct {
		name      string
		mutate    func(*models.TriggerData)
		forUpdate bool
		wantErr   string
	}{
		{
			name:   "valid",
			mutate: func(*models.TriggerData) {},
		},
		{
			name:    "missing workflow",
			mutate:  func(d *models.TriggerData) { d.WorkflowID = "" },
			wantErr: "workflow is required",
		},
		{
			name:      "update does not need a workflow",
			mutate:    func(d *models.TriggerData) { d.WorkflowID = "" },
			forUpdate: true,
		},
		{
			name:    "missing schedule type",
			mutate:  func(d *models.TriggerData) { d.ScheduleType = "" },
			wantErr: "schedule type is required",
		},
		{
			name:    "unknown schedule type",
			mutate:  func(d *models.TriggerData) { d.ScheduleType = "monthly" },
			wantErr: "unknown schedule type",
		},
		{
			name:    "missing time",
			mutate:  func(d *models.TriggerData) { d.Time = models.TimeOfDay{} },
			wantErr: "time is required",
		},
		{
			name:    "weekly without days",
			mutate:  func(d *models.TriggerData) { d.Days = nil },
			wantErr: "at least one day",
		},
		{
			name: "daily without days is fine",
			mutate: func(d *models.TriggerData) {
				d.ScheduleType = models.ScheduleTypeDaily
				d.Days = nil
			},
		},
		{
			name:    "day out of range",
			mutate:  func(d *models.TriggerData) { d.Days = []models.Weekday{models.Monday, 7} },
			wantErr: "out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := valid
			tt.mutate(&data)

			err := data.Validate(tt.forUpdate)

			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, models.ErrInvalidTrigger)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewTrigger(t *testing.T) {
	data := models.TriggerData{
		WorkflowID:   "wf-1",
		ScheduleType: models.ScheduleTypeWeekly,
		Days:         []models.Weekday{models.Friday},
		Time:         models.MustTimeOfDay(18, 0, 0),
		NotifyBefore: true,
	}

	trigger := models.NewTrigger("ts-1", data)

	assert.Equal(t, "ts-1", trigger.ID)
	assert.Equal(t, "wf-1", trigger.WorkflowID)
	assert.True(t, trigger.Active, "new triggers start active")
	assert.True(t, trigger.NotifyBefore)
	assert.False(t, trigger.NotifyAfter)
	assert.Equal(t, trigger.CreatedAt, trigger.UpdatedAt)
	assert.NoError(t, trigger.Validate())
}

func TestApplySchedule(t *testing.T) {
	trigger := models.NewTrigger("ts-1", models.TriggerData{
		WorkflowID:   "wf-1",
		ScheduleType: models.ScheduleTypeWeekly,
		Days:         []models.Weekday{models.Monday},
		Time:         models.MustTimeOfDay(9, 0, 0),
	})
	trigger.Active = false

	trigger.ApplySchedule(models.TriggerData{
		ScheduleType: models.ScheduleTypeDaily,
		Days: []models.Weekday{
			models.Monday, models.Tuesday, models.Wednesday, models.Thursday,
			models.Friday, models.Saturday, models.Sunday,
		},
		Time:        models.MustTimeOfDay(6, 30, 0),
		NotifyAfter: true,
	})

	assert.Equal(t, models.ScheduleTypeDaily, trigger.ScheduleType)
	assert.Equal(t, "06:30:00", trigger.Time.String())
	assert.True(t, trigger.NotifyAfter)
	assert.False(t, trigger.Active, "applying a schedule never changes activity")
	assert.Equal(t, "wf-1", trigger.WorkflowID)
}

func TestTriggerValidate_MissingID(t *testing.T) {
	trigger := &models.Trigger{WorkflowID: "wf-1"}

	err := trigger.Validate()
	require.ErrorIs(t, err, models.ErrInvalidTrigger)
	assert.Contains(t, err.Error(), "missing id")
}
