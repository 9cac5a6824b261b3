package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/dukex/tempo/pkg/channels/gochannel"
	"github.com/dukex/tempo/pkg/eventbus"
	"github.com/dukex/tempo/pkg/persistence/file"
	"github.com/dukex/tempo/pkg/web"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	p := file.NewPersistence(t.TempDir())

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	api := NewAPI(
		slog.Default(),
		p,
		eventbus.NewWatermillEventBus(pub, sub),
		noop.NewTracerProvider().Tracer("test"),
	)

	return api.App()
}

func closeBody(t *testing.T, resp *http.Response) {
	t.Helper()

	err := resp.Body.Close()
	if err != nil {
		t.Logf("Failed to close response body: %v", err)
	}
}

func TestAPI_RootEndpoint(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Tempo API", string(body))
}

func TestAPI_Liveness(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_HealthCheck(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload map[string]any

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "healthy", payload["status"])
}

func TestAPI_TriggerLifecycle(t *testing.T) {
	app := setupTestApp(t)

	createBody, err := json.Marshal(web.CreateTriggerRequest{
		WorkflowID:   "wf-1",
		ScheduleType: "weekly",
		Days:         []int{0, 2, 4},
		Time:         "09:30",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/triggers/", bytes.NewReader(createBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created web.TriggerResponse

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "30 9 * * 1,3,5", created.CronExpression)
	assert.Equal(t, "Mon, Wed, Fri", created.DaysLabel)
	assert.True(t, created.Active)
	assert.NotNil(t, created.NextRunAt)

	// A second trigger for the same workflow conflicts.
	req = httptest.NewRequest(http.MethodPost, "/triggers/", bytes.NewReader(createBody))
	req.Header.Set("Content-Type", "application/json")

	conflictResp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, conflictResp)

	assert.Equal(t, http.StatusConflict, conflictResp.StatusCode)

	// Toggle it off.
	req = httptest.NewRequest(http.MethodPost, "/triggers/"+created.ID+"/toggle", nil)

	toggleResp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, toggleResp)

	require.Equal(t, http.StatusOK, toggleResp.StatusCode)

	var toggled web.TriggerResponse

	require.NoError(t, json.NewDecoder(toggleResp.Body).Decode(&toggled))
	assert.False(t, toggled.Active)

	// Hard delete frees the workflow.
	req = httptest.NewRequest(http.MethodDelete, "/triggers/"+created.ID+"/permanent", nil)

	deleteResp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, deleteResp)

	require.Equal(t, http.StatusNoContent, deleteResp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/triggers/"+created.ID, nil)

	getResp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, getResp)

	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
}

func TestAPI_CreateTrigger_Invalid(t *testing.T) {
	app := setupTestApp(t)

	body, err := json.Marshal(web.CreateTriggerRequest{
		ScheduleType: "weekly",
		Days:         []int{0},
		Time:         "09:30",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/triggers/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_AvailableWorkflows(t *testing.T) {
	app := setupTestApp(t)

	workflowBody, err := json.Marshal(web.CreateWorkflowRequest{Name: "Nightly Sync"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/workflows/", bytes.NewReader(workflowBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/triggers/available-workflows", nil)

	availableResp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, availableResp)

	require.Equal(t, http.StatusOK, availableResp.StatusCode)

	var available []map[string]any

	require.NoError(t, json.NewDecoder(availableResp.Body).Decode(&available))
	require.Len(t, available, 1)
	assert.Equal(t, "Nightly Sync", available[0]["name"])
}
