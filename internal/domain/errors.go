package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors, for use with errors.Is. Validation errors are always
// raised before any mutation; an operation that returns one has changed
// nothing.
var (
	// ErrInvalidRange is returned when check-out is not strictly after
	// check-in.
	ErrInvalidRange = errors.New("check-out date must be after check-in date")

	// ErrOverlap is returned when a room/date interval collides with an
	// active reservation. Usually wrapped in an OverlapError naming the
	// colliding reservations.
	ErrOverlap = errors.New("room already reserved for the requested dates")

	// ErrInvalidPercent is returned for a discount percent outside [0,100].
	ErrInvalidPercent = errors.New("discount percent must be between 0 and 100")

	// ErrInvalidAmount is returned for a missing or non-positive money
	// amount where one is required.
	ErrInvalidAmount = errors.New("amount must be a positive number")

	// ErrPermission is returned when the actor lacks the management
	// capability an operation requires.
	ErrPermission = errors.New("operation requires manager or assistant manager capability")

	// ErrNoOpenShift is returned when a gated-role actor has no open shift
	// for today. It is not retryable; the remedy is opening a shift.
	ErrNoOpenShift = errors.New("no open shift for staff member today")

	// ErrConfirmationMismatch is returned when the required typed
	// confirmation is absent or does not match the expected phrase.
	ErrConfirmationMismatch = errors.New("confirmation phrase missing or incorrect")

	// ErrNotFound is returned when a reservation, room or group resolves
	// to nothing.
	ErrNotFound = errors.New("not found")
)

// OverlapError reports a room/date conflict and names the reservations that
// hold the interval, so staff can pick another room or date.
type OverlapError struct {
	RoomID    int
	CheckIn   time.Time
	CheckOut  time.Time
	Conflicts []Reservation
}

func (e *OverlapError) Error() string {
	if len(e.Conflicts) == 0 {
		return fmt.Sprintf("room %d is not free for [%s, %s)",
			e.RoomID, e.CheckIn.Format("2006-01-02"), e.CheckOut.Format("2006-01-02"))
	}
	ids := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		ids[i] = fmt.Sprintf("#%d [%s, %s)", c.ID,
			c.CheckIn.Format("2006-01-02"), c.CheckOut.Format("2006-01-02"))
	}
	return fmt.Sprintf("room %d is not free for [%s, %s): conflicts with %s",
		e.RoomID, e.CheckIn.Format("2006-01-02"), e.CheckOut.Format("2006-01-02"),
		strings.Join(ids, ", "))
}

func (e *OverlapError) Unwrap() error { return ErrOverlap }

// NotFoundError carries what was looked up and by which id.
type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// LedgerAppendWarning reports that a reservation write succeeded but the
// follow-up ledger entry could not be recorded. It is deliberately not the
// operation's error: the primary state change already committed, and the
// bookkeeping has to be completed manually. Callers surface it as a
// structured warning in the result, never as a failure.
type LedgerAppendWarning struct {
	ReservationID int
	Entry         LedgerEntry
	Cause         error
}

func (w *LedgerAppendWarning) Error() string {
	return fmt.Sprintf("reservation %d updated but ledger entry (%s %s) was not recorded: %v",
		w.ReservationID, w.Entry.Direction, w.Entry.Amount.StringFixed(2), w.Cause)
}

func (w *LedgerAppendWarning) Unwrap() error { return w.Cause }

// SwapStateError reports a room swap that failed after the first room move
// was already applied. The two reservations may be left in an intermediate
// state that needs operator attention, which is why this is distinct from a
// clean pre-validation failure.
type SwapStateError struct {
	ReservationA int
	ReservationB int
	StepsApplied int
	Cause        error
}

func (e *SwapStateError) Error() string {
	return fmt.Sprintf("room swap between reservations %d and %d failed after %d step(s); manual review required: %v",
		e.ReservationA, e.ReservationB, e.StepsApplied, e.Cause)
}

func (e *SwapStateError) Unwrap() error { return e.Cause }

// InvalidTransitionError reports a state-machine transition outside the
// allowed table.
type InvalidTransitionError struct {
	ReservationID int
	From          ReservationStatus
	To            ReservationStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("reservation %d cannot move from %s to %s",
		e.ReservationID, e.From, e.To)
}
