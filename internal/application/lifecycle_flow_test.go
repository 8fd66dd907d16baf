package application

import (
	"errors"
	"testing"
	"time"

	"github.com/Maxito7/hotel_frontdesk/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRoom101Flow walks one room through the full front-desk story: a stay
// is booked, a competing booking is refused and names the blocker, the stay
// is extended into the freed range, checked in, checked out, and invoiced.
func TestRoom101Flow(t *testing.T) {
	f := newFixture()
	june := func(d int) time.Time {
		return time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC)
	}

	created, err := f.service.Create(manager, CreateReservationInput{
		RoomID:      101,
		GuestName:   "Reservation A",
		CheckIn:     june(1),
		CheckOut:    june(5),
		NightlyRate: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	resA := created.Reservation

	// A competing booking over [4, 8) is refused, naming A.
	_, err = f.service.Create(manager, CreateReservationInput{
		RoomID:      101,
		GuestName:   "Reservation B",
		CheckIn:     june(4),
		CheckOut:    june(8),
		NightlyRate: decimal.NewFromInt(1000),
	})
	require.Error(t, err)
	var overlap *domain.OverlapError
	require.True(t, errors.As(err, &overlap))
	require.Len(t, overlap.Conflicts, 1)
	assert.Equal(t, resA.ID, overlap.Conflicts[0].ID)

	// With no competing booking in the way, A extends to [1, 8).
	extended, err := f.allocation.Extend(manager, resA.ID, june(8))
	require.NoError(t, err)
	assert.Equal(t, june(8), extended.Reservation.CheckOut)
	assert.Equal(t, 7, extended.Reservation.Nights())

	// Guest pays, arrives, leaves.
	_, err = f.service.RecordPayment(manager, resA.ID, PaymentInput{
		Amount: decimal.NewFromInt(7000),
		Method: domain.PaymentCard,
	})
	require.NoError(t, err)

	_, err = f.service.ChangeStatus(manager, resA.ID, domain.ReservationConfirmed)
	require.NoError(t, err)
	_, err = f.service.ChangeStatus(manager, resA.ID, domain.ReservationCheckedIn)
	require.NoError(t, err)
	_, err = f.service.ChangeStatus(manager, resA.ID, domain.ReservationCheckedOut)
	require.NoError(t, err)

	invoice, err := f.allocation.CalculateInvoice(manager, resA.ID, decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, invoice.Total.Equal(decimal.NewFromInt(7000)))
	assert.True(t, invoice.Remaining.IsZero())

	// The whole story is on the audit trail.
	final, err := f.service.GetByID(resA.ID)
	require.NoError(t, err)
	assert.Contains(t, final.Notes, "check_out: 2024-06-05 -> 2024-06-08")
	assert.Contains(t, final.Notes, "status: pending -> confirmed")
	assert.Contains(t, final.Notes, "status: checked_in -> checked_out")
}
