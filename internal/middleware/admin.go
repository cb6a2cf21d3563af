// Package middleware holds request middleware shared by the route groups.
package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/keyauth"
)

// AdminKey requires "Authorization: Bearer <key>" on every request.
// Failures get a JSON 401 in the admin API envelope.
func AdminKey(key string) fiber.Handler {
	expected := []byte(key)

	return keyauth.New(keyauth.Config{
		Validator: func(c fiber.Ctx, presented string) (bool, error) {
			if key != "" && subtle.ConstantTimeCompare([]byte(presented), expected) == 1 {
				return true, nil
			}
			return false, keyauth.ErrMissingOrMalformedAPIKey
		},
		ErrorHandler: func(c fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status": "error",
				"error":  "unauthorized",
			})
		},
	})
}
