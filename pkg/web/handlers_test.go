package web_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/dukex/tempo/pkg/models"
	"github.com/dukex/tempo/pkg/persistence/file"
	"github.com/dukex/tempo/pkg/services"
	"github.com/dukex/tempo/pkg/web"
)

func setupTestApp(t *testing.T) (*fiber.App, *services.Trigger) {
	t.Helper()

	p := file.NewPersistence(t.TempDir())

	triggerService := services.NewTrigger(p, nil, noop.NewTracerProvider().Tracer("test"))
	workflowService := services.NewWorkflow(p)
	v := validator.New(validator.WithRequiredStructEnabled())

	handlers := web.NewAPIHandlers(triggerService, workflowService, v)

	app := fiber.New()

	tr := app.Group("/triggers")
	tr.Get("/", handlers.GetTriggers)
	tr.Post("/", handlers.CreateTrigger)
	tr.Get("/available-workflows", handlers.GetAvailableWorkflows)
	tr.Get("/:id", handlers.GetTrigger)
	tr.Patch("/:id", handlers.UpdateTrigger)
	tr.Post("/:id/toggle", handlers.ToggleTrigger)
	tr.Delete("/:id", handlers.DeleteTrigger)
	tr.Delete("/:id/permanent", handlers.DeleteTriggerPermanently)

	app.Get("/time-types", handlers.GetTimeTypes)

	w := app.Group("/workflows")
	w.Get("/", handlers.GetWorkflows)
	w.Post("/", handlers.CreateWorkflow)
	w.Get("/:id", handlers.GetWorkflow)

	return app, triggerService
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload any) (*http.Response, []byte) {
	t.Helper()

	var reqBody *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)

		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() {
		err := resp.Body.Close()
		if err != nil {
			t.Logf("Failed to close response body: %v", err)
		}
	}()

	var buf bytes.Buffer

	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	return resp, buf.Bytes()
}

func TestCreateTrigger(t *testing.T) {
	app, _ := setupTestApp(t)

	tests := []struct {
		name           string
		requestBody    any
		expectedStatus int
	}{
		{
			name: "successful creation",
			requestBody: web.CreateTriggerRequest{
				WorkflowID:   "wf-1",
				ScheduleType: "weekly",
				Days:         []int{1, 3},
				Time:         "14:00",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "daily schedule",
			requestBody: web.CreateTriggerRequest{
				WorkflowID:   "wf-2",
				ScheduleType: "daily",
				Days:         []int{0, 1, 2, 3, 4, 5, 6},
				Time:         "06:15",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "missing workflow",
			requestBody: web.CreateTriggerRequest{
				ScheduleType: "weekly",
				Days:         []int{1},
				Time:         "14:00",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown schedule type",
			requestBody: web.CreateTriggerRequest{
				WorkflowID:   "wf-3",
				ScheduleType: "monthly",
				Days:         []int{1},
				Time:         "14:00",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "day out of range",
			requestBody: web.CreateTriggerRequest{
				WorkflowID:   "wf-4",
				ScheduleType: "weekly",
				Days:         []int{7},
				Time:         "14:00",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "malformed time",
			requestBody: web.CreateTriggerRequest{
				WorkflowID:   "wf-5",
				ScheduleType: "weekly",
				Days:         []int{1},
				Time:         "25:00",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, app, http.MethodPost, "/triggers/", tt.requestBody)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestCreateTrigger_Conflict(t *testing.T) {
	app, _ := setupTestApp(t)

	body := web.CreateTriggerRequest{
		WorkflowID:   "wf-1",
		ScheduleType: "weekly",
		Days:         []int{1},
		Time:         "10:00",
	}

	resp, _ := doJSON(t, app, http.MethodPost, "/triggers/", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := doJSON(t, app, http.MethodPost, "/triggers/", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(raw), "conflict")
}

func TestGetTrigger_EnrichedFields(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, raw := doJSON(t, app, http.MethodPost, "/triggers/", web.CreateTriggerRequest{
		WorkflowID:   "wf-1",
		ScheduleType: "weekly",
		Days:         []int{0, 1, 2, 3, 4},
		Time:         "02:30",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created web.TriggerResponse
	require.NoError(t, json.Unmarshal(raw, &created))

	resp, raw = doJSON(t, app, http.MethodGet, "/triggers/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loaded web.TriggerResponse
	require.NoError(t, json.Unmarshal(raw, &loaded))

	assert.Equal(t, "early_night", loaded.TimeType)
	assert.Equal(t, "Early Night", loaded.TimeTypeLabel)
	assert.Equal(t, "Weekdays", loaded.DaysLabel)
	assert.Equal(t, "30 2 * * 1,2,3,4,5", loaded.CronExpression)
	assert.True(t, loaded.MaintenanceConflict, "02:30 falls inside the daily maintenance window")
	assert.NotNil(t, loaded.NextRunAt)
	assert.NotEmpty(t, loaded.Status.Type)
}

func TestGetTrigger_NotFound(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/triggers/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateTrigger(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, raw := doJSON(t, app, http.MethodPost, "/triggers/", web.CreateTriggerRequest{
		WorkflowID:   "wf-1",
		ScheduleType: "weekly",
		Days:         []int{1},
		Time:         "10:00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created web.TriggerResponse
	require.NoError(t, json.Unmarshal(raw, &created))

	resp, raw = doJSON(t, app, http.MethodPatch, "/triggers/"+created.ID, web.UpdateTriggerRequest{
		ScheduleType: "weekly",
		Days:         []int{5, 6},
		Time:         "18:45",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated web.TriggerResponse
	require.NoError(t, json.Unmarshal(raw, &updated))

	assert.Equal(t, []int{5, 6}, updated.Days)
	assert.Equal(t, "Weekends", updated.DaysLabel)
	assert.Equal(t, "45 18 * * 6,0", updated.CronExpression)
	assert.Equal(t, "wf-1", updated.WorkflowID)
}

func TestSoftDeleteRetainsTrigger(t *testing.T) {
	app, triggerService := setupTestApp(t)

	resp, raw := doJSON(t, app, http.MethodPost, "/triggers/", web.CreateTriggerRequest{
		WorkflowID:   "wf-1",
		ScheduleType: "weekly",
		Days:         []int{1},
		Time:         "10:00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created web.TriggerResponse
	require.NoError(t, json.Unmarshal(raw, &created))

	resp, _ = doJSON(t, app, http.MethodDelete, "/triggers/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	trigger, err := triggerService.GetByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.False(t, trigger.Active)
}

func TestListTriggers_ActiveOnly(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/triggers/", web.CreateTriggerRequest{
		WorkflowID:   "wf-1",
		ScheduleType: "weekly",
		Days:         []int{1},
		Time:         "10:00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := doJSON(t, app, http.MethodPost, "/triggers/", web.CreateTriggerRequest{
		WorkflowID:   "wf-2",
		ScheduleType: "weekly",
		Days:         []int{2},
		Time:         "11:00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var second web.TriggerResponse
	require.NoError(t, json.Unmarshal(raw, &second))

	resp, _ = doJSON(t, app, http.MethodDelete, "/triggers/"+second.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, raw = doJSON(t, app, http.MethodGet, "/triggers/?active_only=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed []web.TriggerResponse
	require.NoError(t, json.Unmarshal(raw, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "wf-1", listed[0].WorkflowID)

	resp, _ = doJSON(t, app, http.MethodGet, "/triggers/?active_only=banana", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTransformTriggerResponse_InactiveStatus(t *testing.T) {
	trigger := &models.Trigger{
		ID:           "t-1",
		WorkflowID:   "wf-1",
		ScheduleType: models.ScheduleTypeWeekly,
		Time:         models.MustTimeOfDay(9, 0, 0),
		Active:       true,
	}

	response := web.TransformTriggerResponse(trigger, time.Now())

	assert.Equal(t, "inactive", response.Status.Type)
	assert.Equal(t, "No days selected", response.Status.Message)
	assert.Nil(t, response.NextRunAt)
	assert.Equal(t, "No days selected", response.DaysLabel)
}

func TestGetTimeTypes(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, raw := doJSON(t, app, http.MethodGet, "/time-types", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var types []web.TimeTypeResponse
	require.NoError(t, json.Unmarshal(raw, &types))
	require.Len(t, types, 8)

	assert.Equal(t, "early_night", types[0].Type)
	assert.Equal(t, "Early Night", types[0].Label)
	assert.Equal(t, 0, types[0].StartMinute)
	assert.Equal(t, 180, types[0].EndMinute)
	assert.Equal(t, []string{"00:00:00", "01:00:00", "02:00:00"}, types[0].RecommendedSlots)

	assert.Equal(t, "evening", types[7].Type)
	assert.Equal(t, 24*60, types[7].EndMinute)
}

func TestCreateWorkflow(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, raw := doJSON(t, app, http.MethodPost, "/workflows/", web.CreateWorkflowRequest{
		Name:        "Invoice Run",
		Description: "Generates invoices",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var workflow models.Workflow
	require.NoError(t, json.Unmarshal(raw, &workflow))
	assert.NotEmpty(t, workflow.ID)
	assert.Equal(t, "Invoice Run", workflow.Name)

	resp, _ = doJSON(t, app, http.MethodPost, "/workflows/", web.CreateWorkflowRequest{Name: "ab"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
