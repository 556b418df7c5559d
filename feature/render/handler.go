package render

import (
	"errors"

	"table-reconciler/core/keyed"
	"table-reconciler/core/logger"
	"table-reconciler/core/oracle"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for render cycles.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the render routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/render")
	group.Post("/", h.HandleRender)
	group.Get("/state", h.HandleState)
}

// HandleRender submits a table state for a render cycle and returns
// the resulting edit script.
//
// Status codes: 200 with the script on success; 400 for a body that is
// not a valid table state; 422 for contract violations (duplicate keys,
// missing comparator), which also leave the committed state untouched.
func (h *Handler) HandleRender(c *fiber.Ctx) error {
	l := logger.WithRequestID(h.service.logger, c)

	var state keyed.TableState
	if err := c.BodyParser(&state); err != nil {
		l.Warn("Malformed render request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid table state: " + err.Error(),
		})
	}

	script, err := h.service.Render(c.Context(), state)
	if err != nil {
		if errors.Is(err, keyed.ErrDuplicateKey) || errors.Is(err, oracle.ErrNoComparator) {
			l.Warn("Render cycle rejected", zap.Error(err))
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		l.Error("Render cycle failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	l.Info("Render cycle served",
		zap.Int("operations", script.Summary.Total()),
	)
	return c.JSON(script)
}

// HandleState returns the engine's last committed table state.
func (h *Handler) HandleState(c *fiber.Ctx) error {
	return c.JSON(h.service.Committed())
}
