package domain

import "time"

type ShiftStatus string

const (
	ShiftOpen   ShiftStatus = "open"
	ShiftClosed ShiftStatus = "closed"
)

// Shift is a time-boxed authorization window for a staff member. The engine
// only ever asks whether one is open; opening and closing shifts belongs to
// an external collaborator.
type Shift struct {
	ID      int         `json:"id"`
	StaffID int         `json:"staffId"`
	Date    time.Time   `json:"date"`
	Status  ShiftStatus `json:"status"`
}

// ShiftRepository is read-only from the engine's perspective.
type ShiftRepository interface {
	// FindOpenShift returns the open shift for (staffID, day), or nil when
	// there is none. At most one open shift per staff member and day is
	// assumed.
	FindOpenShift(staffID int, day time.Time) (*Shift, error)
}
