package application

import (
	"fmt"
	"time"

	"github.com/Maxito7/hotel_frontdesk/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// AllocationService houses the room-allocation operations that sit on top
// of the plain lifecycle: stay extension with split-stay fallback, room
// swapping between two live reservations, and invoice calculation.
type AllocationService struct {
	reservations domain.ReservationRepository
	rooms        domain.RoomRepository
	ledger       domain.LedgerRepository
	guard        *ShiftGuard
	detector     *ConflictDetector
	log          zerolog.Logger
}

// NewAllocationService creates the allocation operations service.
func NewAllocationService(
	reservations domain.ReservationRepository,
	rooms domain.RoomRepository,
	ledger domain.LedgerRepository,
	guard *ShiftGuard,
	detector *ConflictDetector,
	log zerolog.Logger,
) *AllocationService {
	return &AllocationService{
		reservations: reservations,
		rooms:        rooms,
		ledger:       ledger,
		guard:        guard,
		detector:     detector,
		log:          log,
	}
}

// SplitStaySuggestion proposes how a guest could still get the extra nights
// when the current room is taken: either a full move to another room of the
// same type, or staying put until SplitAt and moving for the remainder.
type SplitStaySuggestion struct {
	RoomID     int       `json:"roomId"`
	RoomNumber string    `json:"roomNumber"`
	RoomType   string    `json:"roomType"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	SplitAt    time.Time `json:"splitAt,omitempty"`
}

// ExtendResult reports an extension attempt. On success Reservation holds
// the updated record and Suggestions is empty. On a conflict the operation
// also returns an OverlapError, and Suggestions lists workable
// alternatives, best first.
type ExtendResult struct {
	Reservation *domain.Reservation   `json:"reservation,omitempty"`
	Suggestions []SplitStaySuggestion `json:"suggestions,omitempty"`
}

// Extend pushes a reservation's check-out date later. When the extra nights
// collide with a later booking in the same room, the extension is refused
// but the result still carries split-stay suggestions so the desk can offer
// the guest something concrete instead of a bare no.
func (a *AllocationService) Extend(actor domain.Actor, id int, newCheckOut time.Time) (*ExtendResult, error) {
	if _, err := a.guard.RequireOpenShift(actor); err != nil {
		return nil, err
	}

	res, err := a.reservations.GetByID(id)
	if err != nil {
		return nil, err
	}
	if res.Status.Terminal() {
		return nil, fmt.Errorf("reservation %d is %s and cannot be extended", id, res.Status)
	}
	if !newCheckOut.After(res.CheckOut) {
		return nil, fmt.Errorf("new check-out must be after the current one: %w", domain.ErrInvalidRange)
	}

	// Only the added nights can conflict; the current stay already holds
	// the room.
	conflicts, err := a.detector.FindConflicts(res.RoomID, res.CheckOut, newCheckOut, res.ID)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		suggestions := a.splitStaySuggestions(res, newCheckOut, conflicts)
		overlap := &domain.OverlapError{
			RoomID:    res.RoomID,
			CheckIn:   res.CheckOut,
			CheckOut:  newCheckOut,
			Conflicts: conflicts,
		}
		return &ExtendResult{Suggestions: suggestions}, overlap
	}

	now := time.Now()
	oldCheckOut := res.CheckOut
	res.Notes = appendNote(res.Notes,
		changeNote("check_out", dateString(oldCheckOut), dateString(newCheckOut), actor, now))
	res.CheckOut = newCheckOut
	res.TotalAmount = res.NightlyRate.Mul(decimal.NewFromInt(int64(res.Nights())))
	res.UpdatedBy = actor.Name
	res.UpdatedAt = now

	if err := a.reservations.Update(res); err != nil {
		return nil, err
	}
	return &ExtendResult{Reservation: res}, nil
}

// splitStaySuggestions ranks alternatives for a blocked extension. Whole
// moves into another room of the same type come first; failing that, the
// guest keeps the current room up to the first colliding check-in and moves
// to any free room for the remainder.
func (a *AllocationService) splitStaySuggestions(res *domain.Reservation, newCheckOut time.Time, conflicts []domain.Reservation) []SplitStaySuggestion {
	var suggestions []SplitStaySuggestion

	current, err := a.rooms.GetByID(res.RoomID)
	if err != nil {
		a.log.Warn().Err(err).Int("room_id", res.RoomID).
			Msg("cannot load room for split-stay suggestions")
		return nil
	}

	// Same-type rooms free for the whole extra range.
	fullRange, err := a.rooms.FindAvailableByType(current.Type, res.CheckOut, newCheckOut)
	if err != nil {
		a.log.Warn().Err(err).Msg("split-stay full-range lookup failed")
	}
	for _, room := range fullRange {
		if room.ID == res.RoomID {
			continue
		}
		suggestions = append(suggestions, SplitStaySuggestion{
			RoomID:     room.ID,
			RoomNumber: room.Number,
			RoomType:   room.Type,
			From:       res.CheckOut,
			To:         newCheckOut,
		})
	}

	// The current room may still be free for a prefix of the extra nights,
	// up to the earliest colliding check-in.
	splitAt := conflicts[0].CheckIn
	for _, c := range conflicts[1:] {
		if c.CheckIn.Before(splitAt) {
			splitAt = c.CheckIn
		}
	}
	if !splitAt.After(res.CheckOut) {
		return suggestions
	}

	remainder, err := a.rooms.FindAvailableByType(current.Type, splitAt, newCheckOut)
	if err != nil {
		a.log.Warn().Err(err).Msg("split-stay remainder lookup failed")
	}
	for _, room := range remainder {
		if room.ID == res.RoomID {
			continue
		}
		suggestions = append(suggestions, SplitStaySuggestion{
			RoomID:     room.ID,
			RoomNumber: room.Number,
			RoomType:   room.Type,
			From:       splitAt,
			To:         newCheckOut,
			SplitAt:    splitAt,
		})
	}
	return suggestions
}

// Swap exchanges the rooms of two live reservations. Both placements are
// validated up front (excluding both reservations from the conflict scan)
// so a doomed swap fails cleanly before any write. The exchange itself runs
// as a compensating sequence; a failure partway through is reported as a
// SwapStateError naming how many steps were applied.
func (a *AllocationService) Swap(actor domain.Actor, idA, idB int) error {
	if _, err := a.guard.RequireOpenShift(actor); err != nil {
		return err
	}
	if idA == idB {
		return fmt.Errorf("cannot swap a reservation with itself")
	}

	resA, err := a.reservations.GetByID(idA)
	if err != nil {
		return err
	}
	resB, err := a.reservations.GetByID(idB)
	if err != nil {
		return err
	}
	if resA.Status.Terminal() || resB.Status.Terminal() {
		return fmt.Errorf("both reservations must be live to swap rooms")
	}
	if resA.RoomID == resB.RoomID {
		return fmt.Errorf("reservations %d and %d are already in the same room", idA, idB)
	}

	if err := a.checkPlacement(resA, resB.RoomID, idA, idB); err != nil {
		return err
	}
	if err := a.checkPlacement(resB, resA.RoomID, idA, idB); err != nil {
		return err
	}

	roomA, roomB := resA.RoomID, resB.RoomID
	now := time.Now()

	// Step 1: park A so B can take its room without tripping the overlap
	// check.
	resA.RoomID = 0
	resA.UpdatedBy = actor.Name
	resA.UpdatedAt = now
	if err := a.reservations.Update(resA); err != nil {
		return &domain.SwapStateError{ReservationA: idA, ReservationB: idB, StepsApplied: 0, Cause: err}
	}

	// Step 2: move B into A's old room.
	resB.RoomID = roomA
	resB.Notes = appendNote(resB.Notes,
		changeNote("room", fmt.Sprintf("%d", roomB), fmt.Sprintf("%d", roomA), actor, now))
	resB.UpdatedBy = actor.Name
	resB.UpdatedAt = now
	if err := a.reservations.Update(resB); err != nil {
		return &domain.SwapStateError{ReservationA: idA, ReservationB: idB, StepsApplied: 1, Cause: err}
	}

	// Step 3: land A in B's old room.
	resA.RoomID = roomB
	resA.Notes = appendNote(resA.Notes,
		changeNote("room", fmt.Sprintf("%d", roomA), fmt.Sprintf("%d", roomB), actor, now))
	if err := a.reservations.Update(resA); err != nil {
		return &domain.SwapStateError{ReservationA: idA, ReservationB: idB, StepsApplied: 2, Cause: err}
	}

	a.log.Info().Int("reservation_a", idA).Int("reservation_b", idB).
		Int("room_a", roomB).Int("room_b", roomA).
		Str("actor", actor.Name).Msg("rooms swapped")
	return nil
}

// checkPlacement verifies that res would fit in roomID with both swap
// participants excluded from the scan.
func (a *AllocationService) checkPlacement(res *domain.Reservation, roomID, idA, idB int) error {
	conflicts, err := a.detector.FindConflicts(roomID, res.CheckIn, res.CheckOut, idA)
	if err != nil {
		return err
	}
	filtered := conflicts[:0]
	for _, c := range conflicts {
		if c.ID != idB {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) > 0 {
		return &domain.OverlapError{
			RoomID:    roomID,
			CheckIn:   res.CheckIn,
			CheckOut:  res.CheckOut,
			Conflicts: filtered,
		}
	}
	return nil
}

// Invoice is the billing snapshot for one reservation. CalculateInvoice is
// pure: computing it never mutates the reservation or the ledger, so it can
// be re-run any number of times with the same result for the same state.
type Invoice struct {
	ReservationID   int                  `json:"reservationId"`
	GuestName       string               `json:"guestName"`
	Nights          int                  `json:"nights"`
	NightlyRate     decimal.Decimal      `json:"nightlyRate"`
	Subtotal        decimal.Decimal      `json:"subtotal"`
	Tax             decimal.Decimal      `json:"tax"`
	Deposit         decimal.Decimal      `json:"deposit"`
	Total           decimal.Decimal      `json:"total"`
	Paid            decimal.Decimal      `json:"paid"`
	Remaining       decimal.Decimal      `json:"remaining"`
	CancellationFee decimal.Decimal      `json:"cancellationFee"`
	Currency        string               `json:"currency"`
	Entries         []domain.LedgerEntry `json:"entries"`
}

// CalculateInvoice builds the invoice for a reservation. Paid comes from
// the ledger (pending entries included); reservations predating the ledger
// fall back to the stored aggregate. For a cancelled reservation the whole
// paid amount is presented as the cancellation fee.
func (a *AllocationService) CalculateInvoice(actor domain.Actor, id int, taxRate, deposit decimal.Decimal) (*Invoice, error) {
	if _, err := a.guard.RequireOpenShift(actor); err != nil {
		return nil, err
	}
	if taxRate.IsNegative() {
		return nil, fmt.Errorf("tax rate: %w", domain.ErrInvalidAmount)
	}
	if deposit.IsNegative() {
		return nil, fmt.Errorf("deposit: %w", domain.ErrInvalidAmount)
	}

	res, err := a.reservations.GetByID(id)
	if err != nil {
		return nil, err
	}

	totals, err := a.ledger.SumByReservation(id)
	if err != nil {
		return nil, fmt.Errorf("error summing ledger for reservation %d: %w", id, err)
	}
	paid := totals.Paid()
	if totals.EntryCount == 0 {
		paid = res.AmountPaid
	}

	entries, err := a.ledger.ListByReservation(id)
	if err != nil {
		return nil, fmt.Errorf("error listing ledger for reservation %d: %w", id, err)
	}

	nights := res.Nights()
	subtotal := res.NightlyRate.Mul(decimal.NewFromInt(int64(nights)))
	tax := subtotal.Mul(taxRate).Round(2)
	total := subtotal.Add(tax).Sub(deposit)

	remaining := total.Sub(paid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	fee := decimal.Zero
	if res.Status == domain.ReservationCancelled {
		fee = paid
	}

	return &Invoice{
		ReservationID:   res.ID,
		GuestName:       res.GuestName,
		Nights:          nights,
		NightlyRate:     res.NightlyRate,
		Subtotal:        subtotal,
		Tax:             tax,
		Deposit:         deposit,
		Total:           total,
		Paid:            paid,
		Remaining:       remaining,
		CancellationFee: fee,
		Currency:        res.Currency,
		Entries:         entries,
	}, nil
}
