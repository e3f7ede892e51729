package handlers

import (
	"errors"

	"spotless/internal/handlers/middleware"
	"spotless/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respondError maps domain errors onto HTTP statuses. Anything outside
// the taxonomy is a data-access or programming failure and stays a 500
// with no detail leaked.
func respondError(c *fiber.Ctx, log logger.Logger, err error) error {
	var missingField *models.MissingFieldError
	if errors.As(err, &missingField) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required field",
			"field": missingField.Field,
		})
	}

	var conflict *models.ConflictError
	if errors.As(err, &conflict) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":                  "Assignment conflicts with an existing schedule",
			"conflictingScheduleIds": conflict.ScheduleIDs,
		})
	}

	switch {
	case errors.Is(err, models.ErrMissingField):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, models.ErrDuplicateWorker):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A worker cannot hold more than one role on a schedule",
		})
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, models.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Assignment conflicts with an existing schedule",
		})
	case errors.Is(err, models.ErrDuplicateSchedule):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "An identical schedule already exists",
		})
	case errors.Is(err, models.ErrInvalidTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Status transition not allowed",
		})
	case errors.Is(err, models.ErrForbidden), errors.Is(err, models.ErrCompanyBlocked):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, models.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	log.Er("unhandled error", err, "path", c.Path())
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}

// companyID is the tenant scope for the authenticated request. Only valid
// behind RequireCompany.
func companyID(c *fiber.Ctx) uuid.UUID {
	return *middleware.GetProfile(c).CompanyID
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, &models.MissingFieldError{Field: name}
	}
	return id, nil
}
