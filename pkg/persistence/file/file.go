// Package file provides file-based persistence for canvases and execution
// contexts: one JSON document per entity, mirroring the document-store
// boundary the model was designed against.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/iamoneai/flowcanvas/pkg/persistence"
)

// Persistence implements persistence.Persistence on the local file system.
type Persistence struct {
	root          string
	canvasRepo    *CanvasRepository
	executionRepo *ExecutionRepository
}

// NewPersistence creates file persistence rooted at the given directory.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:          cleanRoot,
		canvasRepo:    NewCanvasRepository(cleanRoot),
		executionRepo: NewExecutionRepository(cleanRoot),
	}
}

// Close performs any necessary cleanup; nothing to do for files.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (fp *Persistence) CanvasRepository() persistence.CanvasRepository {
	return fp.canvasRepo
}

func (fp *Persistence) ExecutionRepository() persistence.ExecutionRepository {
	return fp.executionRepo
}
