package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NewJwtMiddleware verifies HS256 bearer tokens. Tokens are issued elsewhere;
// this service only reads the user_id and email claims.
func NewJwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if err := authenticate(ctx, secret); err != nil {
			return err
		}
		return ctx.Next()
	}
}

// NewOptionalJwtMiddleware lets anonymous requests through but still rejects
// a token that is present and invalid.
func NewOptionalJwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if ctx.Get("Authorization") == "" {
			return ctx.Next()
		}
		if err := authenticate(ctx, secret); err != nil {
			return err
		}
		return ctx.Next()
	}
}

func authenticate(ctx *fiber.Ctx, secret string) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return Unauthorized("Missing token")
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Unauthorized("Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Unauthorized("Invalid claims")
	}
	userID, _ := claims["user_id"].(string)
	if _, err := uuid.Parse(userID); err != nil {
		return Unauthorized("Invalid claims")
	}

	ctx.Locals("user_id", userID)
	if email, ok := claims["email"].(string); ok {
		ctx.Locals("email", email)
	}
	return nil
}

// UserID returns the authenticated user of the request.
func UserID(ctx *fiber.Ctx) uuid.UUID {
	s, _ := ctx.Locals("user_id").(string)
	id, _ := uuid.Parse(s)
	return id
}

func Email(ctx *fiber.Ctx) string {
	s, _ := ctx.Locals("email").(string)
	return s
}
