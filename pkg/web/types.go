// Package web provides the HTTP handlers for the canvas API.
package web

import "github.com/iamoneai/flowcanvas/pkg/models"

// CreateNodeRequest instantiates a node from a registered template into a
// lane.
type CreateNodeRequest struct {
	TemplateID string                  `json:"template_id" validate:"required"`
	NodeID     string                  `json:"node_id,omitempty"`
	Position   models.NodePosition     `json:"position"`
	Properties map[string]models.Value `json:"properties,omitempty"`
}

// StartExecutionRequest requests one execution of a published canvas.
type StartExecutionRequest struct {
	Variables map[string]models.Value `json:"variables,omitempty"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}
