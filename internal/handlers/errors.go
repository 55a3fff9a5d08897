package handlers

import (
	"errors"

	formController "agency/internal/controllers/forms"
	"agency/internal/forms"
	"agency/internal/services"

	"github.com/gofiber/fiber/v2"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrCredentialRequired),
		errors.Is(err, services.ErrTokenRequired),
		errors.Is(err, forms.ErrUnknownField),
		errors.Is(err, forms.ErrReadOnlyField),
		errors.Is(err, forms.ErrSlotIndex),
		errors.Is(err, forms.ErrInvalidValue),
		errors.Is(err, formController.ErrUnknownAction):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrWrongCredential),
		errors.Is(err, services.ErrSessionRequired),
		errors.Is(err, services.ErrSessionExpired):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidToken):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrUnknownAccount):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrTooManyAttempts):
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err with the status its sentinel maps to. Failures
// the caller can act on carry the underlying reason; store failures only
// carry message.
func respondError(c *fiber.Ctx, message string, err error) error {
	status := statusFor(err)
	body := fiber.Map{"message": message}

	if status != fiber.StatusInternalServerError {
		body["error"] = userFacing(err)
	}

	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		body["fields"] = verr.Fields
	}

	return c.Status(status).JSON(body)
}

// userFacing picks the innermost sentinel message so internal wrapping
// context stays in the logs.
func userFacing(err error) string {
	for _, sentinel := range []error{
		services.ErrCredentialRequired,
		services.ErrWrongCredential,
		services.ErrTooManyAttempts,
		services.ErrUnknownAccount,
		services.ErrTokenRequired,
		services.ErrInvalidToken,
		services.ErrSessionRequired,
		services.ErrSessionExpired,
		services.ErrNotFound,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}

	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	return err.Error()
}
