package cmd

import (
	"context"
	"log/slog"

	"github.com/iamoneai/flowcanvas/pkg/registry"
)

// NewRegistry builds the template registry with the built-in templates
// installed.
func NewRegistry(ctx context.Context, logger *slog.Logger) *registry.Registry {
	reg := registry.NewRegistry(logger)

	if err := registry.RegisterBuiltins(reg); err != nil {
		panic("failed to register built-in templates: " + err.Error())
	}

	logger.InfoContext(ctx, "Template registry initialized", "templates", len(reg.Templates()))

	return reg
}
