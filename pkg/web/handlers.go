package web

import (
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/iamoneai/flowcanvas/pkg/canvas"
	"github.com/iamoneai/flowcanvas/pkg/models"
	"github.com/iamoneai/flowcanvas/pkg/registry"
	"github.com/iamoneai/flowcanvas/pkg/services"
)

// APIHandlers bundles the HTTP handlers and their dependencies.
type APIHandlers struct {
	logger           *slog.Logger
	canvasService    *services.Canvas
	executionService *services.Execution
	registry         *registry.Registry
	validate         *validator.Validate
}

func NewAPIHandlers(
	logger *slog.Logger,
	canvasService *services.Canvas,
	executionService *services.Execution,
	reg *registry.Registry,
	validate *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		logger:           logger,
		canvasService:    canvasService,
		executionService: executionService,
		registry:         reg,
		validate:         validate,
	}
}

// GetCanvases handles GET /canvases.
func (h *APIHandlers) GetCanvases(c fiber.Ctx) error {
	canvases, err := h.canvasService.ListCanvases(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(canvases)
}

// CreateCanvas handles POST /canvases.
func (h *APIHandlers) CreateCanvas(c fiber.Ctx) error {
	var doc models.Canvas
	if err := c.Bind().JSON(&doc); err != nil {
		return badRequest(c, "invalid canvas document: "+err.Error())
	}

	created, err := h.canvasService.CreateCanvas(c.Context(), &doc)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetCanvas handles GET /canvases/:id.
func (h *APIHandlers) GetCanvas(c fiber.Ctx) error {
	doc, err := h.canvasService.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(doc)
}

// UpdateCanvas handles PATCH /canvases/:id.
func (h *APIHandlers) UpdateCanvas(c fiber.Ctx) error {
	var doc models.Canvas
	if err := c.Bind().JSON(&doc); err != nil {
		return badRequest(c, "invalid canvas document: "+err.Error())
	}

	doc.ID = c.Params("id")

	updated, err := h.canvasService.UpdateCanvas(c.Context(), &doc)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

// DeleteCanvas handles DELETE /canvases/:id.
func (h *APIHandlers) DeleteCanvas(c fiber.Ctx) error {
	if err := h.canvasService.DeleteCanvas(c.Context(), c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// PublishCanvas handles POST /canvases/:id/publish.
func (h *APIHandlers) PublishCanvas(c fiber.Ctx) error {
	published, err := h.canvasService.PublishCanvas(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(published)
}

// AddLane handles POST /canvases/:id/lanes.
func (h *APIHandlers) AddLane(c fiber.Ctx) error {
	var lane models.Lane
	if err := c.Bind().JSON(&lane); err != nil {
		return badRequest(c, "invalid lane: "+err.Error())
	}

	if lane.ID == "" {
		lane.ID = "lane-" + uuid.New().String()[:8]
	}

	updated, err := h.canvasService.Apply(c.Context(), c.Params("id"),
		func(e *canvas.Editor, doc *models.Canvas) (*models.Canvas, error) {
			return e.AddLane(doc, &lane)
		})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(updated)
}

// RemoveLane handles DELETE /canvases/:id/lanes/:laneId.
func (h *APIHandlers) RemoveLane(c fiber.Ctx) error {
	updated, err := h.canvasService.Apply(c.Context(), c.Params("id"),
		func(e *canvas.Editor, doc *models.Canvas) (*models.Canvas, error) {
			return e.RemoveLane(doc, c.Params("laneId"))
		})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

// CreateNode handles POST /canvases/:id/lanes/:laneId/nodes. The node is
// stamped from a registered template; property overrides are validated
// against the template's property schema.
func (h *APIHandlers) CreateNode(c fiber.Ctx) error {
	var req CreateNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request: "+err.Error())
	}

	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	nodeID := req.NodeID
	if nodeID == "" {
		nodeID = "node-" + uuid.New().String()[:8]
	}

	node, err := h.registry.CreateNode(req.TemplateID, nodeID, req.Position)
	if err != nil {
		return badRequest(c, err.Error())
	}

	for key, value := range req.Properties {
		node.Properties[key] = value
	}

	if err := h.registry.ValidateProperties(node); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.canvasService.Apply(c.Context(), c.Params("id"),
		func(e *canvas.Editor, doc *models.Canvas) (*models.Canvas, error) {
			return e.AddNode(doc, c.Params("laneId"), node)
		})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(updated)
}

// RemoveNode handles DELETE /canvases/:id/nodes/:nodeId.
func (h *APIHandlers) RemoveNode(c fiber.Ctx) error {
	updated, err := h.canvasService.Apply(c.Context(), c.Params("id"),
		func(e *canvas.Editor, doc *models.Canvas) (*models.Canvas, error) {
			return e.RemoveNode(doc, c.Params("nodeId"))
		})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

// AddWire handles POST /canvases/:id/wires.
func (h *APIHandlers) AddWire(c fiber.Ctx) error {
	var wire models.Wire
	if err := c.Bind().JSON(&wire); err != nil {
		return badRequest(c, "invalid wire: "+err.Error())
	}

	if wire.ID == "" {
		wire.ID = "wire-" + uuid.New().String()[:8]
	}

	if err := h.validate.Struct(&wire); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.canvasService.Apply(c.Context(), c.Params("id"),
		func(e *canvas.Editor, doc *models.Canvas) (*models.Canvas, error) {
			return e.AddWire(doc, &wire)
		})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(updated)
}

// RemoveWire handles DELETE /canvases/:id/wires/:wireId.
func (h *APIHandlers) RemoveWire(c fiber.Ctx) error {
	updated, err := h.canvasService.Apply(c.Context(), c.Params("id"),
		func(e *canvas.Editor, doc *models.Canvas) (*models.Canvas, error) {
			return e.RemoveWire(doc, c.Params("wireId"))
		})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

// GetTemplates handles GET /templates.
func (h *APIHandlers) GetTemplates(c fiber.Ctx) error {
	return c.JSON(h.registry.Templates())
}

// StartExecution handles POST /canvases/:id/executions.
func (h *APIHandlers) StartExecution(c fiber.Ctx) error {
	var req StartExecutionRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "invalid request: "+err.Error())
		}
	}

	if err := h.executionService.Request(c.Context(), c.Params("id"), req.Variables); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusAccepted)
}

// GetExecution handles GET /executions/:id.
func (h *APIHandlers) GetExecution(c fiber.Ctx) error {
	execution, err := h.executionService.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(execution)
}

// GetCanvasExecutions handles GET /canvases/:id/executions.
func (h *APIHandlers) GetCanvasExecutions(c fiber.Ctx) error {
	executions, err := h.executionService.ListByCanvas(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(executions)
}

// CancelExecution handles POST /canvases/:id/executions/:executionId/cancel.
func (h *APIHandlers) CancelExecution(c fiber.Ctx) error {
	err := h.executionService.Cancel(c.Context(), c.Params("id"), c.Params("executionId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusAccepted)
}

// HealthCheck handles GET /health.
func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	message, healthy := h.canvasService.HealthCheck(c.Context())

	response := HealthResponse{
		Status:     "healthy",
		Components: map[string]string{"persistence": message},
	}

	if !healthy {
		response.Status = "unhealthy"

		return c.Status(fiber.StatusServiceUnavailable).JSON(response)
	}

	return c.JSON(response)
}
