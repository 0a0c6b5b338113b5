// internal/api/v1/handlers/error_handler.go
package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nadzifan/quran-companion-be/internal/models"
	"github.com/rs/zerolog/log"
)

// ErrorHandler custom untuk Fiber. Error domain sudah diterjemahkan per-handler;
// yang sampai ke sini adalah error yang lolos dari rantai handler.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	// Default error code
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	// Ambil status code dari fiber.Error jika ada
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		code = fiber.StatusBadRequest
		message = "Validation Failed"
	}

	log.Error().Err(err).
		Str("method", ctx.Method()).
		Str("path", ctx.Path()).
		Int("status_sent", code).
		Msg("Error occurred during request processing")

	ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return ctx.Status(code).JSON(models.Response{
		Success: false,
		Message: message,
	})
}
