package application

import (
	"fmt"
	"time"

	"github.com/Maxito7/hotel_frontdesk/internal/domain"
)

// ShiftGuard gates money-affecting operations behind an open shift. Front
// desk and housekeeping staff must hold an open authorization window for
// today; management roles bypass the guard entirely. The guard always runs
// before any state mutation, so a refused operation has changed nothing.
type ShiftGuard struct {
	shifts domain.ShiftRepository
}

// NewShiftGuard creates a guard over the shift store.
func NewShiftGuard(shifts domain.ShiftRepository) *ShiftGuard {
	return &ShiftGuard{shifts: shifts}
}

// RequireOpenShift returns the actor's open shift for today, nil for
// management roles (no shift needed), or ErrNoOpenShift. A missing shift is
// not retryable; the remedy (opening a shift) belongs to the staffing
// subsystem.
func (g *ShiftGuard) RequireOpenShift(actor domain.Actor) (*domain.Shift, error) {
	if actor.Role.Management() {
		return nil, nil
	}

	shift, err := g.shifts.FindOpenShift(actor.ID, today())
	if err != nil {
		return nil, fmt.Errorf("error looking up shift for staff %d: %w", actor.ID, err)
	}
	if shift == nil {
		return nil, domain.ErrNoOpenShift
	}
	return shift, nil
}

func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
