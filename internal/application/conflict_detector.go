package application

import (
	"fmt"
	"time"

	"github.com/Maxito7/hotel_frontdesk/internal/domain"
)

// ConflictDetector answers whether a room is free for a half-open date
// interval. It always re-reads the store at call time; it never trusts a
// caller-supplied occupancy snapshot. A false negative here is a double
// booking, which is why the repositories re-run the same check inside their
// write transaction and this layer stays advisory.
type ConflictDetector struct {
	reservations domain.ReservationRepository
}

// NewConflictDetector creates a detector over the reservation store.
func NewConflictDetector(reservations domain.ReservationRepository) *ConflictDetector {
	return &ConflictDetector{reservations: reservations}
}

// HasConflict reports whether any active reservation on the room overlaps
// [checkIn, checkOut). excludeID removes one reservation from the comparison
// set, used when re-validating an existing reservation during an edit or
// extension; pass 0 to exclude nothing.
func (d *ConflictDetector) HasConflict(roomID int, checkIn, checkOut time.Time, excludeID int) (bool, error) {
	conflicts, err := d.FindConflicts(roomID, checkIn, checkOut, excludeID)
	if err != nil {
		return false, err
	}
	return len(conflicts) > 0, nil
}

// FindConflicts is the explain mode: it returns the colliding reservations
// so callers can name them in an OverlapError or compute alternatives.
func (d *ConflictDetector) FindConflicts(roomID int, checkIn, checkOut time.Time, excludeID int) ([]domain.Reservation, error) {
	if !checkOut.After(checkIn) {
		return nil, domain.ErrInvalidRange
	}
	conflicts, err := d.reservations.FindOverlapping(roomID, checkIn, checkOut, excludeID)
	if err != nil {
		return nil, fmt.Errorf("error checking room availability: %w", err)
	}
	return conflicts, nil
}

// Check returns nil when the interval is free, or an OverlapError naming the
// colliding reservations.
func (d *ConflictDetector) Check(roomID int, checkIn, checkOut time.Time, excludeID int) error {
	conflicts, err := d.FindConflicts(roomID, checkIn, checkOut, excludeID)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return &domain.OverlapError{
			RoomID:    roomID,
			CheckIn:   checkIn,
			CheckOut:  checkOut,
			Conflicts: conflicts,
		}
	}
	return nil
}
