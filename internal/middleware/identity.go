package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CurrentUserID extracts the acting user's id from the verified JWT in
// context.
func CurrentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	claims, ok := claimsFrom(c)
	if !ok {
		return uuid.Nil, errLoginRequired
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errLoginRequired
	}

	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, errLoginRequired
	}
	return id, nil
}

func claimsFrom(c *fiber.Ctx) (jwt.MapClaims, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	return claims, ok
}
