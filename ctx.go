package voxo

import (
	"github.com/gofiber/fiber/v2"
)

// ClaimsFromFiberContext retrieves the claims stored by the auth
// middleware under the given context key.
func ClaimsFromFiberContext(c *fiber.Ctx, key string) (AuthClaims, bool) {
	claims, ok := c.Locals(key).(AuthClaims)
	return claims, ok
}
