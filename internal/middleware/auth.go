package middleware

import (
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/config"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

var errLoginRequired = apperr.Unauthorized("Please login first to access this resource")

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return apperr.Wrap(apperr.ErrUnauthorized, errLoginRequired.Message, err)
		},
	})
}
