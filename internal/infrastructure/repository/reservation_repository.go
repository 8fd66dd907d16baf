package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Maxito7/hotel_frontdesk/internal/domain"
	"github.com/lib/pq"
)

const reservationColumns = `
	id,
	COALESCE(room_id, 0),
	guest_name,
	guest_email,
	check_in,
	check_out,
	nightly_rate,
	total_amount,
	amount_paid,
	status,
	payer_type,
	agency_name,
	guest_count,
	notes,
	currency,
	created_by,
	updated_by,
	created_at,
	updated_at
`

type reservationRepository struct {
	db *sql.DB
}

// NewReservationRepository creates the Postgres-backed reservation store.
func NewReservationRepository(db *sql.DB) domain.ReservationRepository {
	return &reservationRepository{db: db}
}

func scanReservation(row interface{ Scan(...any) error }) (*domain.Reservation, error) {
	res := &domain.Reservation{}
	err := row.Scan(
		&res.ID,
		&res.RoomID,
		&res.GuestName,
		&res.GuestEmail,
		&res.CheckIn,
		&res.CheckOut,
		&res.NightlyRate,
		&res.TotalAmount,
		&res.AmountPaid,
		&res.Status,
		&res.PayerType,
		&res.AgencyName,
		&res.GuestCount,
		&res.Notes,
		&res.Currency,
		&res.CreatedBy,
		&res.UpdatedBy,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// GetByID returns one reservation.
func (r *reservationRepository) GetByID(id int) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	res, err := scanReservation(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &domain.NotFoundError{Entity: "reservation", ID: id}
		}
		return nil, fmt.Errorf("error getting reservation: %w", err)
	}
	return res, nil
}

// Create inserts a reservation and assigns its ID. The overlap check runs
// inside the same transaction as the insert so two concurrent creations for
// the same room cannot both pass; the exclusion constraint in the schema
// backstops it.
func (r *reservationRepository) Create(res *domain.Reservation) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if res.Status.Active() {
		conflicts, err := findOverlappingTx(tx, res.RoomID, res.CheckIn, res.CheckOut, 0)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return &domain.OverlapError{
				RoomID:    res.RoomID,
				CheckIn:   res.CheckIn,
				CheckOut:  res.CheckOut,
				Conflicts: conflicts,
			}
		}
	}

	query := `
		INSERT INTO reservations (
			room_id,
			guest_name,
			guest_email,
			check_in,
			check_out,
			nightly_rate,
			total_amount,
			amount_paid,
			status,
			payer_type,
			agency_name,
			guest_count,
			notes,
			currency,
			created_by,
			updated_by,
			created_at,
			updated_at
		) VALUES (NULLIF($1, 0), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id
	`

	err = tx.QueryRow(
		query,
		res.RoomID,
		res.GuestName,
		res.GuestEmail,
		res.CheckIn,
		res.CheckOut,
		res.NightlyRate,
		res.TotalAmount,
		res.AmountPaid,
		res.Status,
		res.PayerType,
		res.AgencyName,
		res.GuestCount,
		res.Notes,
		res.Currency,
		res.CreatedBy,
		res.UpdatedBy,
		res.CreatedAt,
		res.UpdatedAt,
	).Scan(&res.ID)
	if err != nil {
		return wrapOverlapViolation(err, res)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

// Update rewrites a reservation. When the reservation stays active the
// overlap check is re-run in the same transaction, excluding the
// reservation itself.
func (r *reservationRepository) Update(res *domain.Reservation) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if res.Status.Active() && res.RoomID != 0 {
		conflicts, err := findOverlappingTx(tx, res.RoomID, res.CheckIn, res.CheckOut, res.ID)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return &domain.OverlapError{
				RoomID:    res.RoomID,
				CheckIn:   res.CheckIn,
				CheckOut:  res.CheckOut,
				Conflicts: conflicts,
			}
		}
	}

	query := `
		UPDATE reservations SET
			room_id = NULLIF($1, 0),
			guest_name = $2,
			guest_email = $3,
			check_in = $4,
			check_out = $5,
			nightly_rate = $6,
			total_amount = $7,
			amount_paid = $8,
			status = $9,
			payer_type = $10,
			agency_name = $11,
			guest_count = $12,
			notes = $13,
			currency = $14,
			updated_by = $15,
			updated_at = $16
		WHERE id = $17
	`

	result, err := tx.Exec(
		query,
		res.RoomID,
		res.GuestName,
		res.GuestEmail,
		res.CheckIn,
		res.CheckOut,
		res.NightlyRate,
		res.TotalAmount,
		res.AmountPaid,
		res.Status,
		res.PayerType,
		res.AgencyName,
		res.GuestCount,
		res.Notes,
		res.Currency,
		res.UpdatedBy,
		res.UpdatedAt,
		res.ID,
	)
	if err != nil {
		return wrapOverlapViolation(err, res)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.NotFoundError{Entity: "reservation", ID: res.ID}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

// Delete removes a reservation permanently.
func (r *reservationRepository) Delete(id int) error {
	result, err := r.db.Exec(`DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting reservation: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.NotFoundError{Entity: "reservation", ID: id}
	}
	return nil
}

// FindOverlapping returns the active reservations in roomID whose half-open
// [check_in, check_out) range intersects the given one, ordered by
// check-in. excludeID, when non-zero, leaves that reservation out of the
// scan.
func (r *reservationRepository) FindOverlapping(roomID int, checkIn, checkOut time.Time, excludeID int) ([]domain.Reservation, error) {
	return findOverlappingTx(r.db, roomID, checkIn, checkOut, excludeID)
}

type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

func findOverlappingTx(q querier, roomID int, checkIn, checkOut time.Time, excludeID int) ([]domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE room_id = $1
		AND status IN ('pending', 'confirmed', 'checked_in')
		AND check_in < $3
		AND $2 < check_out
		AND ($4 = 0 OR id <> $4)
		ORDER BY check_in
	`

	rows, err := q.Query(query, roomID, checkIn, checkOut, excludeID)
	if err != nil {
		return nil, fmt.Errorf("error finding overlapping reservations: %w", err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

// FindByGroupKey returns the live members sharing the group identity,
// ordered by room.
func (r *reservationRepository) FindByGroupKey(key domain.GroupKey) ([]domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE payer_type = 'agency'
		AND agency_name = $1
		AND check_in = $2
		AND check_out = $3
		AND status IN ('pending', 'confirmed', 'checked_in')
		ORDER BY room_id
	`

	rows, err := r.db.Query(query, key.AgencyName, key.CheckIn, key.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("error finding group reservations: %w", err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

// MarkNoShows flips pending and confirmed reservations whose check-in date
// is already past to no_show and returns how many changed.
func (r *reservationRepository) MarkNoShows(asOf time.Time) (int, error) {
	query := `
		UPDATE reservations
		SET status = 'no_show',
			updated_by = 'system',
			updated_at = NOW()
		WHERE status IN ('pending', 'confirmed')
		AND check_in < $1
	`

	result, err := r.db.Exec(query, asOf)
	if err != nil {
		return 0, fmt.Errorf("error marking no-shows: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error checking affected rows: %w", err)
	}
	return int(rowsAffected), nil
}

// FindStaleCheckedIn returns checked-in reservations whose check-out date
// is already past, ordered by check-out.
func (r *reservationRepository) FindStaleCheckedIn(asOf time.Time) ([]domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE status = 'checked_in'
		AND check_out < $1
		ORDER BY check_out
	`

	rows, err := r.db.Query(query, asOf)
	if err != nil {
		return nil, fmt.Errorf("error finding stale check-ins: %w", err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

func collectReservations(rows *sql.Rows) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning reservation: %w", err)
		}
		reservations = append(reservations, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reservations: %w", err)
	}
	return reservations, nil
}

// wrapOverlapViolation converts the exclusion-constraint violation raised
// by the schema backstop into the same OverlapError the in-transaction
// check produces.
func wrapOverlapViolation(err error, res *domain.Reservation) error {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23P01" {
		return &domain.OverlapError{
			RoomID:   res.RoomID,
			CheckIn:  res.CheckIn,
			CheckOut: res.CheckOut,
		}
	}
	return fmt.Errorf("error writing reservation: %w", err)
}
