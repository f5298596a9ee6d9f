package serverutils

import (
	"errors"

	"food-donation-be/internal/pkg/apperror"
	"food-donation-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

var statusByKind = map[apperror.Kind]int{
	apperror.KindValidation:        fiber.StatusBadRequest,
	apperror.KindPermission:        fiber.StatusForbidden,
	apperror.KindNotVerified:       fiber.StatusForbidden,
	apperror.KindInvalidTransition: fiber.StatusConflict,
	apperror.KindAlreadyClaimed:    fiber.StatusConflict,
	apperror.KindNotFound:          fiber.StatusNotFound,
	apperror.KindUnauthorized:      fiber.StatusUnauthorized,
	apperror.KindConflict:          fiber.StatusConflict,
}

// StatusOf returns the HTTP status for err.
func StatusOf(err error) int {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		if code, ok := statusByKind[appErr.Kind]; ok {
			return code
		}
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}

// ErrorHandlerMiddleware turns errors returned by handlers into the standard
// envelope. Unknown errors are logged and reported as 500 without detail.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return writeError(ctx, err, log)
	}
}

// ErrorHandler is the fiber.Config hook for errors raised outside handlers
// (unknown routes, body limits).
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		return writeError(ctx, err, log)
	}
}

func writeError(ctx *fiber.Ctx, err error, log logger.ILogger) error {
	code := StatusOf(err)

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		if appErr.Kind == apperror.KindValidation && len(appErr.Fields) > 0 {
			return ctx.Status(code).JSON(ValidationErrorResponse(appErr.Message, appErr.Fields))
		}
		return ctx.Status(code).JSON(ErrorResponse(code, appErr.Message))
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(code).JSON(ErrorResponse(code, fiberErr.Message))
	}

	if log != nil {
		log.Error("HTTP", "Unhandled error", map[string]interface{}{
			"error":  err.Error(),
			"method": ctx.Method(),
			"path":   ctx.Path(),
		})
	}
	return ctx.Status(code).JSON(ErrorResponse(code, "internal server error"))
}
