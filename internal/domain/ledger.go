package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LedgerDirection string

const (
	LedgerIncome  LedgerDirection = "income"
	LedgerExpense LedgerDirection = "expense"
)

type LedgerStatus string

const (
	LedgerPending   LedgerStatus = "pending"
	LedgerConfirmed LedgerStatus = "confirmed"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentInstapay PaymentMethod = "instapay"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

// EntryStatus returns the reconciliation state a fresh ledger entry gets for
// the payment method: cash and Instapay movements stay pending until a
// manager confirms the money, everything else is confirmed on receipt.
func (m PaymentMethod) EntryStatus() LedgerStatus {
	if m == PaymentCash || m == PaymentInstapay {
		return LedgerPending
	}
	return LedgerConfirmed
}

// LedgerEntry is an immutable record of one money movement. Reconciliation
// state changes only by inserting new entries; a refund is a new expense
// entry, never a mutation of the original income entry.
type LedgerEntry struct {
	ID            string          `json:"id"`
	ReservationID int             `json:"reservationId,omitempty"` // 0 for non-reservation entries
	Direction     LedgerDirection `json:"direction"`
	Amount        decimal.Decimal `json:"amount"` // always positive
	Status        LedgerStatus    `json:"status"`
	Method        PaymentMethod   `json:"method,omitempty"`
	Note          string          `json:"note,omitempty"`
	CreatedBy     string          `json:"createdBy"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// LedgerTotals aggregates a reservation's ledger entries by direction and
// reconciliation state.
type LedgerTotals struct {
	ConfirmedIncome  decimal.Decimal `json:"confirmedIncome"`
	PendingIncome    decimal.Decimal `json:"pendingIncome"`
	ConfirmedExpense decimal.Decimal `json:"confirmedExpense"`
	PendingExpense   decimal.Decimal `json:"pendingExpense"`
	EntryCount       int             `json:"entryCount"`
}

// Paid returns income minus expenses, pending included. Pending cash still
// counts as paid from the guest's point of view; reconciliation is a
// back-office concern.
func (t LedgerTotals) Paid() decimal.Decimal {
	return t.ConfirmedIncome.Add(t.PendingIncome).
		Sub(t.ConfirmedExpense).Sub(t.PendingExpense)
}

// Refunded returns the total expense movement on the reservation.
func (t LedgerTotals) Refunded() decimal.Decimal {
	return t.ConfirmedExpense.Add(t.PendingExpense)
}

// LedgerRepository is an append-only store. Appends are not idempotent:
// every call inserts a new entry.
type LedgerRepository interface {
	// Append inserts the entry. The caller supplies the entry ID.
	Append(entry *LedgerEntry) error
	// SumByReservation aggregates all entries for a reservation.
	SumByReservation(reservationID int) (LedgerTotals, error)
	// ListByReservation returns entries for a reservation, oldest first.
	ListByReservation(reservationID int) ([]LedgerEntry, error)
}
