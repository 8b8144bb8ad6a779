package persistence

import "context"

// Composite serves canvases and executions from different backends, e.g.
// canvases on disk and execution contexts in Redis.
type Composite struct {
	canvases   CanvasRepository
	executions ExecutionRepository
	health     []func(ctx context.Context) error
	closers    []func(ctx context.Context) error
}

func NewComposite(canvases CanvasRepository, executions ExecutionRepository) *Composite {
	return &Composite{canvases: canvases, executions: executions}
}

// OnHealthCheck registers an additional backend health probe.
func (c *Composite) OnHealthCheck(probe func(ctx context.Context) error) *Composite {
	c.health = append(c.health, probe)

	return c
}

// OnClose registers an additional backend shutdown hook.
func (c *Composite) OnClose(closer func(ctx context.Context) error) *Composite {
	c.closers = append(c.closers, closer)

	return c
}

func (c *Composite) CanvasRepository() CanvasRepository {
	return c.canvases
}

func (c *Composite) ExecutionRepository() ExecutionRepository {
	return c.executions
}

func (c *Composite) HealthCheck(ctx context.Context) error {
	for _, probe := range c.health {
		if err := probe(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (c *Composite) Close(ctx context.Context) error {
	var firstErr error

	for _, closer := range c.closers {
		if err := closer(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
