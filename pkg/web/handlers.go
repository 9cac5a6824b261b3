package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/dukex/tempo/pkg/models"
	"github.com/dukex/tempo/pkg/services"
)

type APIHandlers struct {
	triggerService  *services.Trigger
	workflowService *services.Workflow
	validator       *validator.Validate
}

func NewAPIHandlers(
	triggerService *services.Trigger,
	workflowService *services.Workflow,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		triggerService:  triggerService,
		workflowService: workflowService,
		validator:       validator,
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.triggerService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Tempo API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Tempo API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

// GetTriggers lists triggers, optionally filtered by workflow_id and
// active_only query parameters.
func (h *APIHandlers) GetTriggers(c fiber.Ctx) error {
	req := services.ListTriggersRequest{
		WorkflowID: c.Query("workflow_id"),
	}

	if activeStr := c.Query("active_only"); activeStr != "" {
		active, err := strconv.ParseBool(activeStr)
		if err != nil {
			return badRequest(c, "Invalid active_only parameter: "+err.Error())
		}

		req.ActiveOnly = &active
	}

	triggers, err := h.triggerService.List(c.Context(), req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(TransformTriggerResponses(triggers, time.Now()))
}

func (h *APIHandlers) GetTrigger(c fiber.Ctx) error {
	trigger, err := h.triggerService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(TransformTriggerResponse(trigger, time.Now()))
}

func (h *APIHandlers) CreateTrigger(c fiber.Ctx) error {
	var req CreateTriggerRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	data, err := req.TriggerData()
	if err != nil {
		return badRequest(c, err.Error())
	}

	trigger, err := h.triggerService.Create(c.Context(), data)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(TransformTriggerResponse(trigger, time.Now()))
}

func (h *APIHandlers) UpdateTrigger(c fiber.Ctx) error {
	var req UpdateTriggerRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	data, err := req.TriggerData()
	if err != nil {
		return badRequest(c, err.Error())
	}

	trigger, err := h.triggerService.Update(c.Context(), c.Params("id"), data)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(TransformTriggerResponse(trigger, time.Now()))
}

func (h *APIHandlers) ToggleTrigger(c fiber.Ctx) error {
	trigger, err := h.triggerService.Toggle(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(TransformTriggerResponse(trigger, time.Now()))
}

// DeleteTrigger soft deletes: the trigger is deactivated but retained.
func (h *APIHandlers) DeleteTrigger(c fiber.Ctx) error {
	_, err := h.triggerService.SoftDelete(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteTriggerPermanently removes the trigger row, freeing its workflow.
func (h *APIHandlers) DeleteTriggerPermanently(c fiber.Ctx) error {
	err := h.triggerService.HardDelete(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetAvailableWorkflows lists the registry workflows that have no
// trigger yet, so clients can offer them for trigger creation.
func (h *APIHandlers) GetAvailableWorkflows(c fiber.Ctx) error {
	workflows, err := h.triggerService.WorkflowsWithoutTriggers(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflows)
}

// GetTimeTypes lists the time-of-day buckets with their ranges and
// suggested on-the-hour slots, for clients building a time picker.
func (h *APIHandlers) GetTimeTypes(c fiber.Ctx) error {
	return c.JSON(TransformTimeTypeResponses(models.TimeTypes()))
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.workflowService.List(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflows)
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	workflow, err := h.workflowService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req CreateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	workflow, err := h.workflowService.Create(c.Context(), &models.Workflow{
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(workflow)
}
