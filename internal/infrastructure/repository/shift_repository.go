package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Maxito7/hotel_frontdesk/internal/domain"
)

type shiftRepository struct {
	db *sql.DB
}

// NewShiftRepository creates the Postgres-backed shift store.
func NewShiftRepository(db *sql.DB) domain.ShiftRepository {
	return &shiftRepository{db: db}
}

// FindOpenShift returns the staff member's open shift covering the given
// day, or (nil, nil) when there is none.
func (r *shiftRepository) FindOpenShift(staffID int, day time.Time) (*domain.Shift, error) {
	query := `
		SELECT id, staff_id, shift_date, status
		FROM shifts
		WHERE staff_id = $1
		AND shift_date = $2
		AND status = 'open'
	`

	shift := &domain.Shift{}
	err := r.db.QueryRow(query, staffID, day).Scan(
		&shift.ID,
		&shift.StaffID,
		&shift.Date,
		&shift.Status,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error finding open shift: %w", err)
	}
	return shift, nil
}
