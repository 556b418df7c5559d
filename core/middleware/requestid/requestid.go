// Package requestid provides a Fiber middleware assigning every
// request a unique ID, stored in the request locals and echoed in the
// X-Request-Id response header for log correlation.
package requestid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// New creates the request ID middleware. An incoming X-Request-Id
// header is honored so upstream proxies can carry their own IDs
// through; otherwise a fresh UUID is generated.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get("X-Request-Id")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("request_id", rid)
		c.Set("X-Request-Id", rid)
		return c.Next()
	}
}
