package repository

import (
	"database/sql"
	"fmt"

	"github.com/Maxito7/hotel_frontdesk/internal/domain"
)

type staffRepository struct {
	db *sql.DB
}

// NewStaffRepository creates the Postgres-backed staff store.
func NewStaffRepository(db *sql.DB) domain.StaffRepository {
	return &staffRepository{db: db}
}

// GetByID returns one staff member.
func (r *staffRepository) GetByID(id int) (*domain.Staff, error) {
	query := `
		SELECT id, name, role
		FROM staff
		WHERE id = $1
	`

	staff := &domain.Staff{}
	err := r.db.QueryRow(query, id).Scan(
		&staff.ID,
		&staff.Name,
		&staff.Role,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &domain.NotFoundError{Entity: "staff", ID: id}
		}
		return nil, fmt.Errorf("error getting staff member: %w", err)
	}
	return staff, nil
}
