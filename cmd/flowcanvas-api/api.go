// Package main provides the FlowCanvas API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/iamoneai/flowcanvas/pkg/canvas"
	"github.com/iamoneai/flowcanvas/pkg/eventbus"
	"github.com/iamoneai/flowcanvas/pkg/persistence"
	"github.com/iamoneai/flowcanvas/pkg/registry"
	"github.com/iamoneai/flowcanvas/pkg/services"
	"github.com/iamoneai/flowcanvas/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	registry    *registry.Registry
	eventBus    eventbus.EventBus
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	registry *registry.Registry,
	eventBus eventbus.EventBus,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		registry:    registry,
		eventBus:    eventBus,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	editor := canvas.NewEditor()
	canvasService := services.NewCanvas(a.persistence, editor)
	executionService := services.NewExecution(a.persistence, a.eventBus)

	handlers := web.NewAPIHandlers(a.logger, canvasService, executionService, a.registry, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("FlowCanvas API")
	})

	cv := app.Group("/canvases")
	cv.Get("/", handlers.GetCanvases)
	cv.Post("/", handlers.CreateCanvas)
	cv.Get("/:id", handlers.GetCanvas)
	cv.Patch("/:id", handlers.UpdateCanvas)
	cv.Delete("/:id", handlers.DeleteCanvas)
	cv.Post("/:id/publish", handlers.PublishCanvas)

	// Authoring endpoints:
	cv.Post("/:id/lanes", handlers.AddLane)
	cv.Delete("/:id/lanes/:laneId", handlers.RemoveLane)
	cv.Post("/:id/lanes/:laneId/nodes", handlers.CreateNode)
	cv.Delete("/:id/nodes/:nodeId", handlers.RemoveNode)
	cv.Post("/:id/wires", handlers.AddWire)
	cv.Delete("/:id/wires/:wireId", handlers.RemoveWire)

	// Execution endpoints:
	cv.Post("/:id/executions", handlers.StartExecution)
	cv.Get("/:id/executions", handlers.GetCanvasExecutions)
	cv.Post("/:id/executions/:executionId/cancel", handlers.CancelExecution)
	app.Get("/executions/:id", handlers.GetExecution)

	app.Get("/templates", handlers.GetTemplates)
	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
