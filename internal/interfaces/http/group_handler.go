package http

import (
	"time"

	"github.com/Maxito7/hotel_frontdesk/internal/application"
	"github.com/Maxito7/hotel_frontdesk/internal/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// GroupHandler exposes agency group operations over HTTP. Groups are
// addressed through any member reservation's ID.
type GroupHandler struct {
	groups *application.GroupService
	staff  domain.StaffRepository
}

// NewGroupHandler creates the group handler.
func NewGroupHandler(groups *application.GroupService, staff domain.StaffRepository) *GroupHandler {
	return &GroupHandler{groups: groups, staff: staff}
}

// CreateGroupRequest is the body for an agency block booking.
type CreateGroupRequest struct {
	AgencyName  string          `json:"agencyName"`
	RoomIDs     []int           `json:"roomIds"`
	GuestName   string          `json:"guestName"`
	GuestEmail  string          `json:"guestEmail"`
	CheckIn     string          `json:"checkIn"`
	CheckOut    string          `json:"checkOut"`
	NightlyRate decimal.Decimal `json:"nightlyRate"`
	GuestCount  int             `json:"guestCount"`
	Currency    string          `json:"currency"`
	Notes       string          `json:"notes"`
}

// Create books an agency group across several rooms. The response reports
// every room individually; 207 signals a mix of successes and failures.
func (h *GroupHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFromRequest(c, h.staff)
	if err != nil {
		return errorJSON(c, err)
	}

	var req CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request format",
		})
	}

	checkIn, err := time.Parse("2006-01-02", req.CheckIn)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid checkIn format, use YYYY-MM-DD",
		})
	}
	checkOut, err := time.Parse("2006-01-02", req.CheckOut)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid checkOut format, use YYYY-MM-DD",
		})
	}

	results, err := h.groups.CreateGroup(actor, application.CreateGroupInput{
		AgencyName:  req.AgencyName,
		RoomIDs:     req.RoomIDs,
		GuestName:   req.GuestName,
		GuestEmail:  req.GuestEmail,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		NightlyRate: req.NightlyRate,
		GuestCount:  req.GuestCount,
		Currency:    req.Currency,
		Notes:       req.Notes,
	})
	if err != nil {
		return errorJSON(c, err)
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	status := fiber.StatusCreated
	if failed == len(results) {
		status = fiber.StatusConflict
	} else if failed > 0 {
		status = fiber.StatusMultiStatus
	}
	return c.Status(status).JSON(fiber.Map{"data": results})
}

// Members lists the live members of the group a reservation belongs to.
func (h *GroupHandler) Members(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid reservation ID",
		})
	}

	members, err := h.groups.Members(id)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"data": members})
}

// DiscountRequest is the body for a group discount. ReservationIDs narrows
// the discount to a subset of members; empty means all.
type DiscountRequest struct {
	Percent        decimal.Decimal `json:"percent"`
	ReservationIDs []int           `json:"reservationIds"`
}

// ApplyDiscount discounts the targeted members of a group.
func (h *GroupHandler) ApplyDiscount(c *fiber.Ctx) error {
	actor, err := actorFromRequest(c, h.staff)
	if err != nil {
		return errorJSON(c, err)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid reservation ID",
		})
	}

	var req DiscountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request format",
		})
	}

	updated, err := h.groups.ApplyDiscount(actor, id, req.Percent, req.ReservationIDs)
	if err != nil && len(updated) == 0 {
		return errorJSON(c, err)
	}

	body := fiber.Map{"data": updated}
	if err != nil {
		body["warning"] = err.Error()
	}
	return c.JSON(body)
}

// EditGroupRequest is the body for shared group edits. totalPaid is an
// aggregate amount split equally across members.
type EditGroupRequest struct {
	CheckIn     *string          `json:"checkIn"`
	CheckOut    *string          `json:"checkOut"`
	NightlyRate *decimal.Decimal `json:"nightlyRate"`
	GuestCount  *int             `json:"guestCount"`
	TotalPaid   *decimal.Decimal `json:"totalPaid"`
	Method      string           `json:"method"`
}

// Edit applies shared edits to every live member of a group.
func (h *GroupHandler) Edit(c *fiber.Ctx) error {
	actor, err := actorFromRequest(c, h.staff)
	if err != nil {
		return errorJSON(c, err)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid reservation ID",
		})
	}

	var req EditGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request format",
		})
	}

	input := application.EditGroupInput{
		NightlyRate: req.NightlyRate,
		GuestCount:  req.GuestCount,
		TotalPaid:   req.TotalPaid,
		Method:      domain.PaymentMethod(req.Method),
	}
	if req.CheckIn != nil {
		checkIn, err := time.Parse("2006-01-02", *req.CheckIn)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid checkIn format, use YYYY-MM-DD",
			})
		}
		input.CheckIn = &checkIn
	}
	if req.CheckOut != nil {
		checkOut, err := time.Parse("2006-01-02", *req.CheckOut)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid checkOut format, use YYYY-MM-DD",
			})
		}
		input.CheckOut = &checkOut
	}

	results, err := h.groups.EditGroup(actor, id, input)
	if err != nil {
		return errorJSON(c, err)
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	status := fiber.StatusOK
	if failed > 0 {
		status = fiber.StatusMultiStatus
	}
	return c.Status(status).JSON(fiber.Map{"data": results})
}

// Delete hard-deletes every live member of a group.
func (h *GroupHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorFromRequest(c, h.staff)
	if err != nil {
		return errorJSON(c, err)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid reservation ID",
		})
	}

	var req DeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request format",
		})
	}

	deleted, err := h.groups.DeleteGroup(actor, id, req.Confirmation)
	if err != nil && deleted == 0 {
		return errorJSON(c, err)
	}

	body := fiber.Map{"deleted": deleted}
	if err != nil {
		body["warning"] = err.Error()
	}
	return c.JSON(body)
}
