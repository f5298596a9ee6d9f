package serverutils

import (
	"food-donation-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// ParseBody decodes the request body into out. A malformed body is a validation error.
func ParseBody(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return apperror.Validation("invalid request body")
	}
	return nil
}

func ParseQuery(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.QueryParser(out); err != nil {
		return apperror.Validation("invalid query parameters")
	}
	return nil
}
