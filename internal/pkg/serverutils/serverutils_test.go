package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"food-donation-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(nil))
	app.Get("/test", handler)
	return app
}

func decode(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestErrorHandlerMiddleware(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", apperror.Validation("bad"), 400},
		{"permission", apperror.Permission("no"), 403},
		{"not verified", apperror.NotVerified("verify"), 403},
		{"invalid transition", apperror.InvalidTransition("received", "available"), 409},
		{"already claimed", apperror.AlreadyClaimed("taken"), 409},
		{"not found", apperror.NotFound("donation"), 404},
		{"unauthorized", apperror.Unauthorized("token"), 401},
		{"fiber error", fiber.ErrMethodNotAllowed, 405},
		{"unknown", errors.New("boom"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp(func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)

			body := decode(t, resp.Body)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, float64(tt.code), body["code"])
		})
	}
}

func TestErrorHandlerHidesInternalDetail(t *testing.T) {
	app := newApp(func(c *fiber.Ctx) error { return errors.New("pq: connection refused") })

	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	require.NoError(t, err)

	body := decode(t, resp.Body)
	assert.Equal(t, "internal server error", body["message"])
}

type sample struct {
	Email    string `json:"email" validate:"required,email"`
	FoodName string `json:"food_name" validate:"required,notblank"`
}

func TestValidateRequestReportsJSONFieldNames(t *testing.T) {
	err := ValidateRequest(sample{Email: "nope"})
	require.Error(t, err)

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "email")
	assert.Contains(t, appErr.Fields, "food_name")

	assert.NoError(t, ValidateRequest(sample{Email: "a@b.co", FoodName: "Bread"}))
}

func TestValidateRequestRejectsWhitespace(t *testing.T) {
	err := ValidateRequest(sample{Email: "a@b.co", FoodName: " \t "})
	require.ErrorIs(t, err, apperror.ErrValidation)

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "This field may not be blank.", appErr.Fields["food_name"])
}

func TestJwtMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(nil))
	app.Get("/me", JwtMiddleware, func(c *fiber.Ctx) error {
		id, err := CurrentUserId(c)
		if err != nil {
			return err
		}
		return c.SendString(id.String() + ":" + c.Locals("role").(string))
	})
	app.Get("/admin", JwtMiddleware, AdminOnly, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	userId := uuid.New()
	donorToken, err := IssueAccessToken(userId, "donor", time.Hour)
	require.NoError(t, err)

	t.Run("missing token", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+donorToken)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, userId.String()+":donor", string(body))
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := IssueAccessToken(userId, "donor", -time.Minute)
		require.NoError(t, err)
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+expired)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("admin route rejects donor", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+donorToken)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 403, resp.StatusCode)
	})
}
