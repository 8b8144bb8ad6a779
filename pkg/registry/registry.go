// Package registry provides the node template registry canvases resolve
// template references against.
package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/iamoneai/flowcanvas/pkg/models"
)

// Registry maps template IDs to node templates. It is safe for concurrent
// use; registration normally happens once at startup.
type Registry struct {
	logger    *slog.Logger
	mu        sync.RWMutex
	templates map[string]*models.NodeTemplate
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:    logger,
		templates: make(map[string]*models.NodeTemplate),
	}
}

// Register adds a template. Re-registering an ID replaces the previous
// template.
func (r *Registry) Register(template *models.NodeTemplate) error {
	if template == nil || template.ID == "" {
		return fmt.Errorf("template must have an ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.templates[template.ID]; exists {
		r.logger.Warn("Replacing registered template", "template_id", template.ID)
	}

	r.templates[template.ID] = template

	return nil
}

// Template resolves a template by ID.
func (r *Registry) Template(templateID string) (*models.NodeTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	template, ok := r.templates[templateID]
	if !ok {
		return nil, fmt.Errorf("template '%s' not registered", templateID)
	}

	return template, nil
}

// Templates lists all registered templates ordered by ID.
func (r *Registry) Templates() []*models.NodeTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.NodeTemplate, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// CreateNode instantiates a node from a registered template.
func (r *Registry) CreateNode(templateID, nodeID string, position models.NodePosition) (*models.Node, error) {
	template, err := r.Template(templateID)
	if err != nil {
		return nil, err
	}

	return template.CreateNode(nodeID, position), nil
}
