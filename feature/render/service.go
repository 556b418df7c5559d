package render

import (
	"context"

	"table-reconciler/core/diff"
	"table-reconciler/core/engine"
	"table-reconciler/core/keyed"

	"go.uber.org/zap"
)

// Service exposes the render engine to the HTTP layer.
type Service struct {
	engine *engine.Engine
	logger *zap.Logger
}

// NewService creates a new render service.
func NewService(eng *engine.Engine, logger *zap.Logger) *Service {
	return &Service{
		engine: eng,
		logger: logger,
	}
}

// Render submits the next table state and returns the edit script
// transforming the committed state into it.
func (s *Service) Render(ctx context.Context, next keyed.TableState) (*diff.Script, error) {
	return s.engine.Render(ctx, next)
}

// Committed returns the engine's last committed table state.
func (s *Service) Committed() keyed.TableState {
	return s.engine.Committed()
}
