package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/dto"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the app-wide fiber error handler. It turns typed API
// errors into their HTTP status and hides the details of server errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	resp := dto.ErrorResponse{Error: true, Message: "Internal server error"}

	var appErr *apperr.Error
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		code = statusFor(appErr.Kind)
		resp.Message = appErr.Message
		resp.Fields = appErr.Fields
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		resp.Message = fiberErr.Message
	}

	if code >= fiber.StatusInternalServerError {
		slog.Error("request failed",
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
			"method", c.Method(),
			"path", c.Path(),
			"status", code,
			"error", err.Error(),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		if appErr == nil {
			resp.Message = "Internal server error"
		}
	}

	return c.Status(code).JSON(resp)
}

func statusFor(kind error) int {
	switch kind {
	case apperr.ErrInvalidIdentifier, apperr.ErrValidation:
		return fiber.StatusBadRequest
	case apperr.ErrUnauthorized:
		return fiber.StatusUnauthorized
	case apperr.ErrForbidden:
		return fiber.StatusForbidden
	case apperr.ErrNotFound:
		return fiber.StatusNotFound
	case apperr.ErrConflict:
		return fiber.StatusConflict
	case apperr.ErrUpstream:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

type validatable interface {
	Validate() apperr.FieldErrors
}

// parseBody decodes the JSON body into req and runs its validation.
func parseBody(c *fiber.Ctx, req validatable) error {
	if err := c.BodyParser(req); err != nil {
		return apperr.Wrap(apperr.ErrValidation, "Invalid request body", err)
	}
	return req.Validate().Err()
}
