package http

import (
	"time"

	"github.com/Maxito7/hotel_frontdesk/internal/domain"
	"github.com/gofiber/fiber/v2"
)

// RoomHandler exposes room listing and availability over HTTP.
type RoomHandler struct {
	rooms domain.RoomRepository
}

// NewRoomHandler creates the room handler.
func NewRoomHandler(rooms domain.RoomRepository) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// GetAll lists every room.
func (h *RoomHandler) GetAll(c *fiber.Ctx) error {
	rooms, err := h.rooms.GetAllRooms()
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"data": rooms})
}

// GetByID returns one room.
func (h *RoomHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid room ID",
		})
	}

	room, err := h.rooms.GetByID(id)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"data": room})
}

// Availability lists rooms of a type free for a date range. type, checkIn
// and checkOut are query parameters; dates use YYYY-MM-DD.
func (h *RoomHandler) Availability(c *fiber.Ctx) error {
	roomType := c.Query("type")
	if roomType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "type query parameter is required",
		})
	}

	checkIn, err := time.Parse("2006-01-02", c.Query("checkIn"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid checkIn format, use YYYY-MM-DD",
		})
	}
	checkOut, err := time.Parse("2006-01-02", c.Query("checkOut"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid checkOut format, use YYYY-MM-DD",
		})
	}
	if !checkOut.After(checkIn) {
		return errorJSON(c, domain.ErrInvalidRange)
	}

	rooms, err := h.rooms.FindAvailableByType(roomType, checkIn, checkOut)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"data": rooms})
}

// UpdateCleanlinessRequest is the body for a housekeeping status change.
type UpdateCleanlinessRequest struct {
	Cleanliness string `json:"cleanliness"`
}

// UpdateCleanliness sets a room's housekeeping status.
func (h *RoomHandler) UpdateCleanliness(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid room ID",
		})
	}

	var req UpdateCleanlinessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request format",
		})
	}

	switch domain.CleanlinessStatus(req.Cleanliness) {
	case domain.RoomClean, domain.RoomInCleaning, domain.RoomNeedsCleaning:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "cleanliness must be clean, in_cleaning or needs_cleaning",
		})
	}

	if err := h.rooms.UpdateCleanliness(id, domain.CleanlinessStatus(req.Cleanliness)); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "room cleanliness updated"})
}
