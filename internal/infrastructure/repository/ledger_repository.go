package repository

import (
	"database/sql"
	"fmt"

	"github.com/Maxito7/hotel_frontdesk/internal/domain"
)

type ledgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates the Postgres-backed ledger store. The table
// is append-only: entries are never updated or deleted, corrections are new
// entries in the opposite direction.
func NewLedgerRepository(db *sql.DB) domain.LedgerRepository {
	return &ledgerRepository{db: db}
}

// Append inserts one ledger entry.
func (r *ledgerRepository) Append(entry *domain.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (
			id,
			reservation_id,
			direction,
			amount,
			status,
			method,
			note,
			created_by,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(
		query,
		entry.ID,
		entry.ReservationID,
		entry.Direction,
		entry.Amount,
		entry.Status,
		entry.Method,
		entry.Note,
		entry.CreatedBy,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error appending ledger entry: %w", err)
	}
	return nil
}

// SumByReservation aggregates a reservation's entries by direction and
// status in one pass.
func (r *ledgerRepository) SumByReservation(reservationID int) (domain.LedgerTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE direction = 'income' AND status = 'confirmed'), 0),
			COALESCE(SUM(amount) FILTER (WHERE direction = 'income' AND status = 'pending'), 0),
			COALESCE(SUM(amount) FILTER (WHERE direction = 'expense' AND status = 'confirmed'), 0),
			COALESCE(SUM(amount) FILTER (WHERE direction = 'expense' AND status = 'pending'), 0),
			COUNT(*)
		FROM ledger_entries
		WHERE reservation_id = $1
	`

	var totals domain.LedgerTotals
	err := r.db.QueryRow(query, reservationID).Scan(
		&totals.ConfirmedIncome,
		&totals.PendingIncome,
		&totals.ConfirmedExpense,
		&totals.PendingExpense,
		&totals.EntryCount,
	)
	if err != nil {
		return domain.LedgerTotals{}, fmt.Errorf("error summing ledger entries: %w", err)
	}
	return totals, nil
}

// ListByReservation returns a reservation's entries oldest first.
func (r *ledgerRepository) ListByReservation(reservationID int) ([]domain.LedgerEntry, error) {
	query := `
		SELECT id, reservation_id, direction, amount, status, method, note, created_by, created_at
		FROM ledger_entries
		WHERE reservation_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Query(query, reservationID)
	if err != nil {
		return nil, fmt.Errorf("error listing ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var entry domain.LedgerEntry
		var method sql.NullString
		err := rows.Scan(
			&entry.ID,
			&entry.ReservationID,
			&entry.Direction,
			&entry.Amount,
			&entry.Status,
			&method,
			&entry.Note,
			&entry.CreatedBy,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning ledger entry: %w", err)
		}
		entry.Method = domain.PaymentMethod(method.String)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}
	return entries, nil
}
