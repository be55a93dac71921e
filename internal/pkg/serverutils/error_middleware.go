package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"boardgame-rules-be/internal/pkg/apperror"
	"boardgame-rules-be/internal/pkg/logger"
)

// ErrorBody is the JSON shape all failed requests share, so the web client
// can distinguish "server rejected this" from transport-level failures.
type ErrorBody struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// ErrorHandlerMiddleware maps typed application errors onto HTTP status codes
// and a uniform JSON error body.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError
		message := "internal server error"

		if appErr, ok := apperror.As(err); ok {
			status = appErr.StatusCode()
			message = appErr.Message
		} else {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
				message = fiberErr.Message
			}
		}

		if status >= fiber.StatusInternalServerError {
			log.Error("http", "request failed", map[string]interface{}{
				"path":   ctx.Path(),
				"method": ctx.Method(),
				"status": status,
				"error":  err.Error(),
			})
		} else {
			log.Warn("http", "request rejected", map[string]interface{}{
				"path":   ctx.Path(),
				"method": ctx.Method(),
				"status": status,
				"error":  message,
			})
		}

		return ctx.Status(status).JSON(ErrorBody{
			Error: message,
			Code:  status,
		})
	}
}
