// Package handlers implements the server-rendered pages.
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"tweetsearch/internal/config"
)

// ErrorPage renders the error template for err. Non-Fiber errors become a 500
// without leaking their message.
func ErrorPage(c fiber.Ctx, err error, cfg *config.Config) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).Render("error", MergeBranding(fiber.Map{
		"Title":   "Error",
		"Message": message,
	}, cfg))
}
