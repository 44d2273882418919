package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName carries the ray id on responses so clients can quote it when
// reporting problems.
const HeaderName = "X-Ray-ID"

// LocalsKey is where the ray id is stored on the request context.
const LocalsKey = "ray_id"

// New creates a middleware that assigns every request a unique ray id. An
// id supplied by the caller is kept so traces can span services.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalsKey, rid)
		c.Set(HeaderName, rid)
		return c.Next()
	}
}
