// Package main provides the Tempo API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"go.opentelemetry.io/otel/trace"

	"github.com/dukex/tempo/pkg/eventbus"
	"github.com/dukex/tempo/pkg/persistence"
	"github.com/dukex/tempo/pkg/services"
	"github.com/dukex/tempo/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	tracer      trace.Tracer
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	tracer trace.Tracer,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		eventBus:    eventBus,
		tracer:      tracer,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	triggerService := services.NewTrigger(a.persistence, a.eventBus, a.tracer)
	workflowService := services.NewWorkflow(a.persistence)

	handlers := web.NewAPIHandlers(triggerService, workflowService, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Tempo API")
	})

	t := app.Group("/triggers")
	t.Get("/", handlers.GetTriggers)
	t.Post("/", handlers.CreateTrigger)
	t.Get("/available-workflows", handlers.GetAvailableWorkflows)
	t.Get("/:id", handlers.GetTrigger)
	t.Patch("/:id", handlers.UpdateTrigger)
	t.Post("/:id/toggle", handlers.ToggleTrigger)
	t.Delete("/:id", handlers.DeleteTrigger)
	t.Delete("/:id/permanent", handlers.DeleteTriggerPermanently)

	app.Get("/time-types", handlers.GetTimeTypes)

	w := app.Group("/workflows")
	w.Get("/", handlers.GetWorkflows)
	w.Post("/", handlers.CreateWorkflow)
	w.Get("/:id", handlers.GetWorkflow)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
