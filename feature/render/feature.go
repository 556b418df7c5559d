package render

import (
	"table-reconciler/core/engine"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature wires the render service and handler into the feature loader.
type Feature struct {
	engine *engine.Engine
	logger *zap.Logger
}

// NewFeature creates the render feature.
func NewFeature(eng *engine.Engine, logger *zap.Logger) *Feature {
	return &Feature{engine: eng, logger: logger}
}

// Name returns the feature name.
func (f *Feature) Name() string {
	return "render"
}

// IsEnabled reports whether the feature should load. Render is the
// server's reason to exist, so it is always on.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the render routes.
func (f *Feature) Load(app fiber.Router) error {
	service := NewService(f.engine, f.logger)
	handler := NewHandler(service)
	handler.RegisterRoutes(app)
	return nil
}
