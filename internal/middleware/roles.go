package middleware

import (
	"slices"

	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/repository"
	"github.com/gofiber/fiber/v2"
)

// RequireRole lets the request through when the acting user's stored role
// is one of roles. It must run after JWTProtected.
func RequireRole(users *repository.UserRepository, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return err
		}

		user, err := users.FindByID(c.UserContext(), userID)
		if err != nil {
			if repository.IsNotFound(err) {
				return errLoginRequired
			}
			return err
		}

		if !slices.Contains(roles, user.Role) {
			return apperr.Forbidden("You do not have permission to access this resource")
		}
		return c.Next()
	}
}
