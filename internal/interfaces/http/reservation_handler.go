package http

import (
	"time"

	"github.com/Maxito7/hotel_frontdesk/internal/application"
	"github.com/Maxito7/hotel_frontdesk/internal/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ReservationHandler exposes the reservation lifecycle and allocation
// operations over HTTP.
type ReservationHandler struct {
	service    *application.ReservationService
	allocation *application.AllocationService
	staff      domain.StaffRepository
}

// NewReservationHandler creates the reservation handler.
func NewReservationHandler(service *application.ReservationService, allocation *application.AllocationService, staff domain.StaffRepository) *ReservationHandler {
	return &ReservationHandler{
		service:    service,
		allocation: allocation,
		staff:      staff,
	}
}

// PaymentRequest carries a money movement in a request body.
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
}

// CreateReservationRequest is the body for creating one reservation. Dates
// use YYYY-MM-DD.
type CreateReservationRequest struct {
	RoomID         int             `json:"roomId"`
	GuestName      string          `json:"guestName"`
	GuestEmail     string          `json:"guestEmail"`
	CheckIn        string          `json:"checkIn"`
	CheckOut       string          `json:"checkOut"`
	NightlyRate    decimal.Decimal `json:"nightlyRate"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	PayerType      string          `json:"payerType"`
	AgencyName     string          `json:"agencyName"`
	GuestCount     int             `json:"guestCount"`
	Currency       string          `json:"currency"`
	Notes          string          `json:"notes"`
	InitialPayment *PaymentRequest `json:"initialPayment,omitempty"`
}

// Create creates a reservation.
func (h *ReservationHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFromRequest(c, h.staff)
	if err != nil {
		return errorJSON(c, err)
	}

	var req CreateReservationRequest
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

	input := application.CreateReservationInput{
		RoomID:      req.RoomID,
		GuestName:   req.GuestName,
		GuestEmail:  req.GuestEmail,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		NightlyRate: req.NightlyRate,
		TotalAmount: req.TotalAmount,
		PayerType:   domain.PayerType(req.PayerType),
		AgencyName:  req.AgencyName,
		GuestCount:  req.GuestCount,
		Currency:    req.Currency,
		Notes:       req.Notes,
	}
	if req.InitialPayment != nil {
		input.InitialPayment = &application.PaymentInput{
			Amount: req.InitialPayment.Amount,
			Method: domain.PaymentMethod(req.InitialPayment.Method),
		}
	}

	result, err := h.service.Create(actor, input)
	if err != nil {
		return errorJSON(c, err)
	}

	body := fiber.Map{"data": result.Reservation}
	if result.Warning != nil {
		body["warning"] = result.Warning.Error()
	}
	return c.Status(fiber.StatusCreated).JSON(body)
}

// GetByID returns one reservation.
func (h *ReservationHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid reservation ID",
		})
	}

	res, err := h.service.GetByID(id)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"data": res})
}

// UpdateReservationRequest is the body for editing a reservation; absent
// fields are untouched.
type UpdateReservationRequest struct {
	RoomID        *int             `json:"roomId"`
	CheckIn       *string          `json:"checkIn"`
	CheckOut      *string          `json:"checkOut"`
	GuestName     *string          `json:"guestName"`
	GuestEmail    *string          `json:"guestEmail"`
	NightlyRate   *decimal.Decimal `json:"nightlyRate"`
	TotalAmount   *decimal.Decimal `json:"totalAmount"`
	AmountPaid    *decimal.Decimal `json:"amountPaid"`
	PaymentMethod string           `json:"paymentMethod"`
	GuestCount    *int             `json:"guestCount"`
	Note          string           `json:"note"`
}

// Update edits a reservation.
func (h *ReservationHandler) Update(c *fiber.Ctx) error {
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

	var req UpdateReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request format",
		})
	}

	input := application.UpdateReservationInput{
		RoomID:        req.RoomID,
		GuestName:     req.GuestName,
		GuestEmail:    req.GuestEmail,
		NightlyRate:   req.NightlyRate,
		TotalAmount:   req.TotalAmount,
		AmountPaid:    req.AmountPaid,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		GuestCount:    req.GuestCount,
		Note:          req.Note,
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

	result, err := h.service.Update(actor, id, input)
	if err != nil {
		return errorJSON(c, err)
	}

	body := fiber.Map{"data": result.Reservation}
	if result.Warning != nil {
		body["warning"] = result.Warning.Error()
	}
	return c.JSON(body)
}

// UpdateStatusRequest is the body for a guest-facing status transition.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus applies a status transition (confirm, check in, check out,
// no-show).
func (h *ReservationHandler) UpdateStatus(c *fiber.Ctx) error {
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

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request format",
		})
	}

	res, err := h.service.ChangeStatus(actor, id, domain.ReservationStatus(req.Status))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"data": res})
}

// CancelRequest is the body for a cancellation; the refund decision is
// mandatory.
type CancelRequest struct {
	RefundChoice string          `json:"refundChoice"`
	RefundAmount decimal.Decimal `json:"refundAmount"`
}

// Cancel cancels a reservation with a refund decision.
func (h *ReservationHandler) Cancel(c *fiber.Ctx) error {
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

	var req CancelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request format",
		})
	}

	result, err := h.service.Cancel(actor, id, domain.RefundDecision{
		Choice: domain.RefundChoice(req.RefundChoice),
		Amount: req.RefundAmount,
	})
	if err != nil {
		return errorJSON(c, err)
	}

	body := fiber.Map{
		"data":         result.Reservation,
		"refundAmount": result.RefundAmount,
	}
	if result.Warning != nil {
		body["warning"] = result.Warning.Error()
	}
	return c.JSON(body)
}

// ReopenRequest is the body for reopening a cancelled reservation. The
// confirmed flag is the second step of the two-step flow; a first request
// without it is rejected.
type ReopenRequest struct {
	Status    string `json:"status"`
	Confirmed bool   `json:"confirmed"`
}

// Reopen moves a cancelled reservation back to a live status.
func (h *ReservationHandler) Reopen(c *fiber.Ctx) error {
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

	var req ReopenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request format",
		})
	}

	res, err := h.service.Reopen(actor, id, domain.ReservationStatus(req.Status), req.Confirmed)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"data": res})
}

// DeleteRequest is the body for a hard delete; the confirmation must be the
// exact phrase.
type DeleteRequest struct {
	Confirmation string `json:"confirmation"`
}

// Delete hard-deletes a reservation.
func (h *ReservationHandler) Delete(c *fiber.Ctx) error {
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

	if err := h.service.Delete(actor, id, req.Confirmation); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "reservation deleted"})
}

// RecordPayment appends a payment to a reservation.
func (h *ReservationHandler) RecordPayment(c *fiber.Ctx) error {
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

	var req PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request format",
		})
	}

	result, err := h.service.RecordPayment(actor, id, application.PaymentInput{
		Amount: req.Amount,
		Method: domain.PaymentMethod(req.Method),
	})
	if err != nil {
		return errorJSON(c, err)
	}

	body := fiber.Map{"data": result.Reservation}
	if result.Warning != nil {
		body["warning"] = result.Warning.Error()
	}
	return c.JSON(body)
}

// ExtendRequest is the body for a stay extension.
type ExtendRequest struct {
	CheckOut string `json:"checkOut"`
}

// Extend pushes the check-out date later. A conflict comes back as 409 with
// split-stay suggestions in the body.
func (h *ReservationHandler) Extend(c *fiber.Ctx) error {
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

	var req ExtendRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request format",
		})
	}

	checkOut, err := time.Parse("2006-01-02", req.CheckOut)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid checkOut format, use YYYY-MM-DD",
		})
	}

	result, err := h.allocation.Extend(actor, id, checkOut)
	if err != nil {
		if result != nil && len(result.Suggestions) > 0 {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":       err.Error(),
				"suggestions": result.Suggestions,
			})
		}
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"data": result.Reservation})
}

// SwapRequest is the body for swapping two reservations' rooms.
type SwapRequest struct {
	ReservationA int `json:"reservationA"`
	ReservationB int `json:"reservationB"`
}

// Swap exchanges the rooms of two reservations.
func (h *ReservationHandler) Swap(c *fiber.Ctx) error {
	actor, err := actorFromRequest(c, h.staff)
	if err != nil {
		return errorJSON(c, err)
	}

	var req SwapRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request format",
		})
	}

	if err := h.allocation.Swap(actor, req.ReservationA, req.ReservationB); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "rooms swapped"})
}

// Invoice computes the billing snapshot for a reservation. taxRate and
// deposit come from query parameters; both default to zero.
func (h *ReservationHandler) Invoice(c *fiber.Ctx) error {
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

	taxRate, err := decimal.NewFromString(c.Query("taxRate", "0"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid taxRate",
		})
	}
	deposit, err := decimal.NewFromString(c.Query("deposit", "0"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid deposit",
		})
	}

	invoice, err := h.allocation.CalculateInvoice(actor, id, taxRate, deposit)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"data": invoice})
}
