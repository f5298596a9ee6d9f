package serverutils

import (
	"fmt"
	"os"
	"time"

	"food-donation-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_secret"
	}
	return []byte(secret)
}

// IssueAccessToken signs an HS256 token carrying the user id and role.
func IssueAccessToken(userId uuid.UUID, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userId.String(),
		"role":    role,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ParseAccessToken validates tokenStr and returns the user id and role it carries.
func ParseAccessToken(tokenStr string) (uuid.UUID, string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, "", apperror.Unauthorized("Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", apperror.Unauthorized("Invalid claims")
	}

	userIdStr, _ := claims["user_id"].(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, "", apperror.Unauthorized("Token missing user_id")
	}
	role, _ := claims["role"].(string)
	return userId, role, nil
}

// BearerToken extracts the token from the Authorization header, or "".
func BearerToken(ctx *fiber.Ctx) string {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}
	return authHeader[7:]
}

func JwtMiddleware(ctx *fiber.Ctx) error {
	tokenStr := BearerToken(ctx)
	if tokenStr == "" {
		return apperror.Unauthorized("Missing token")
	}

	userId, role, err := ParseAccessToken(tokenStr)
	if err != nil {
		return err
	}

	ctx.Locals("user_id", userId.String())
	ctx.Locals("role", role)
	return ctx.Next()
}

// AdminOnly must run after JwtMiddleware. The role claim is a fast path;
// services still re-check the stored role.
func AdminOnly(ctx *fiber.Ctx) error {
	if role, _ := ctx.Locals("role").(string); role != "admin" {
		return apperror.Permission("Access denied: Admins only")
	}
	return ctx.Next()
}

// CurrentUserId reads the id placed in Locals by JwtMiddleware.
func CurrentUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, apperror.Unauthorized("Unauthorized")
	}
	return userId, nil
}

// ParamId parses a UUID route parameter. Malformed ids read as not found.
func ParamId(ctx *fiber.Ctx, name, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperror.NotFound(resource)
	}
	return id, nil
}
