package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReservationStatus string

const (
	ReservationPending    ReservationStatus = "pending"
	ReservationConfirmed  ReservationStatus = "confirmed"
	ReservationCheckedIn  ReservationStatus = "checked_in"
	ReservationCheckedOut ReservationStatus = "checked_out"
	ReservationCancelled  ReservationStatus = "cancelled"
	ReservationNoShow     ReservationStatus = "no_show"
)

type PayerType string

const (
	PayerIndividual PayerType = "individual"
	PayerAgency     PayerType = "agency"
)

// DeleteConfirmationPhrase is the exact phrase a manager must type before a
// reservation (or a whole group) is hard-deleted.
const DeleteConfirmationPhrase = "DELETE"

// Active reports whether the status keeps the reservation in the room's
// conflict set. Cancelled and no-show reservations release their interval;
// checked-out stays are historical only.
func (s ReservationStatus) Active() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCheckedIn:
		return true
	}
	return false
}

// Terminal reports whether the status ends the guest-facing lifecycle.
// Cancelled reservations can still be reopened administratively.
func (s ReservationStatus) Terminal() bool {
	switch s {
	case ReservationCheckedOut, ReservationCancelled, ReservationNoShow:
		return true
	}
	return false
}

// Reservation is a room assignment for a guest over a half-open date
// interval [CheckIn, CheckOut).
type Reservation struct {
	ID           int               `json:"id"`
	RoomID       int               `json:"roomId"`
	GuestName    string            `json:"guestName"`
	GuestEmail   string            `json:"guestEmail,omitempty"`
	CheckIn      time.Time         `json:"checkIn"`
	CheckOut     time.Time         `json:"checkOut"`
	NightlyRate  decimal.Decimal   `json:"nightlyRate"`
	TotalAmount  decimal.Decimal   `json:"totalAmount"`
	AmountPaid   decimal.Decimal   `json:"amountPaid"` // legacy aggregate; ledger totals win when entries exist
	Status       ReservationStatus `json:"status"`
	PayerType    PayerType         `json:"payerType"`
	AgencyName   string            `json:"agencyName,omitempty"`
	GuestCount   int               `json:"guestCount"`
	Notes        string            `json:"notes"` // append-only audit trail
	Currency     string            `json:"currency"`
	CreatedBy    string            `json:"createdBy"`
	UpdatedBy    string            `json:"updatedBy"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// Nights returns the length of stay in whole days.
func (r *Reservation) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}

// GroupKey returns the agency-group key of the reservation, or ok=false for
// individual payers.
func (r *Reservation) GroupKey() (GroupKey, bool) {
	if r.PayerType != PayerAgency || r.AgencyName == "" {
		return GroupKey{}, false
	}
	return GroupKey{
		AgencyName: r.AgencyName,
		CheckIn:    r.CheckIn,
		CheckOut:   r.CheckOut,
	}, true
}

// GroupKey identifies a batch of agency reservations that are edited,
// discounted and deleted as one logical unit. Membership is always resolved
// by a live query at operation time, never from a cached list.
type GroupKey struct {
	AgencyName string    `json:"agencyName"`
	CheckIn    time.Time `json:"checkIn"`
	CheckOut   time.Time `json:"checkOut"`
}

// Overlaps reports whether the half-open intervals [a1,a2) and [b1,b2)
// intersect. Touching intervals (a2 == b1) do not overlap: a check-out day
// is also a check-in day.
func Overlaps(a1, a2, b1, b2 time.Time) bool {
	return a1.Before(b2) && b1.Before(a2)
}

// RefundChoice is the mandatory refund decision supplied when cancelling.
type RefundChoice string

const (
	RefundFull    RefundChoice = "full"
	RefundPartial RefundChoice = "partial"
	RefundNone    RefundChoice = "none"
)

// RefundDecision carries the choice and, for partial refunds, the amount.
type RefundDecision struct {
	Choice RefundChoice    `json:"choice"`
	Amount decimal.Decimal `json:"amount,omitempty"`
}

// ReservationRepository defines the persistence operations for reservations.
// Create and Update run the authoritative overlap check inside the store's
// own consistency mechanism; read-time checks in the service layer are
// advisory only.
type ReservationRepository interface {
	// GetByID returns the reservation or a NotFoundError.
	GetByID(id int) (*Reservation, error)
	// Create inserts the reservation, assigns its ID, and fails with an
	// OverlapError if an active reservation already holds the interval.
	Create(res *Reservation) error
	// Update persists all mutable fields. When the reservation is in an
	// active status the room/date overlap check is re-run excluding its
	// own id.
	Update(res *Reservation) error
	// Delete hard-deletes the reservation.
	Delete(id int) error
	// FindOverlapping returns active reservations on the room whose
	// intervals intersect [checkIn, checkOut), excluding excludeID
	// (0 to exclude nothing).
	FindOverlapping(roomID int, checkIn, checkOut time.Time, excludeID int) ([]Reservation, error)
	// FindByGroupKey returns the current members of an agency group.
	FindByGroupKey(key GroupKey) ([]Reservation, error)
	// MarkNoShows flags pending/confirmed reservations whose check-in
	// date has passed as of the given day. Returns the affected count.
	MarkNoShows(asOf time.Time) (int, error)
	// FindStaleCheckedIn returns checked-in reservations whose check-out
	// date is already past. They are never auto-transitioned; the desk
	// has to resolve them.
	FindStaleCheckedIn(asOf time.Time) ([]Reservation, error)
}
