package http

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Maxito7/hotel_frontdesk/internal/domain"
	"github.com/gofiber/fiber/v2"
)

// actorFromRequest resolves the acting staff member from the X-Staff-ID
// header. Every mutating endpoint requires it; the role drives permission
// and shift checks downstream.
func actorFromRequest(c *fiber.Ctx, staff domain.StaffRepository) (domain.Actor, error) {
	header := c.Get("X-Staff-ID")
	if header == "" {
		return domain.Actor{}, fmt.Errorf("X-Staff-ID header is required")
	}
	id, err := strconv.Atoi(header)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("X-Staff-ID must be a number")
	}
	member, err := staff.GetByID(id)
	if err != nil {
		return domain.Actor{}, err
	}
	return member.Actor(), nil
}

// errorStatus maps a domain error to the HTTP status the client should see.
func errorStatus(err error) int {
	var overlap *domain.OverlapError
	var transition *domain.InvalidTransitionError
	var swap *domain.SwapStateError
	switch {
	case errors.As(err, &overlap):
		return fiber.StatusConflict
	case errors.As(err, &transition):
		return fiber.StatusConflict
	case errors.As(err, &swap):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrPermission):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrNoOpenShift):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrConfirmationMismatch):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrInvalidPercent),
		errors.Is(err, domain.ErrInvalidAmount):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// errorJSON renders a domain error as the standard error envelope. Overlap
// errors additionally list the colliding reservations so the desk can see
// what is in the way.
func errorJSON(c *fiber.Ctx, err error) error {
	var overlap *domain.OverlapError
	if errors.As(err, &overlap) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     err.Error(),
			"conflicts": overlap.Conflicts,
		})
	}
	return c.Status(errorStatus(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
