package application

import (
	"errors"
	"testing"

	"github.com/Maxito7/hotel_frontdesk/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRejectsConflictWithoutWriting(t *testing.T) {
	f := newFixture()
	f.book(101, 10, 15)

	_, err := f.service.Create(manager, CreateReservationInput{
		RoomID:      101,
		GuestName:   "Second",
		CheckIn:     day(12),
		CheckOut:    day(17),
		NightlyRate: decimal.NewFromInt(900),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOverlap)

	conflicts, err := f.reservations.FindOverlapping(101, day(1), day(30), 0)
	require.NoError(t, err)
	assert.Len(t, conflicts, 1, "the refused reservation must not exist")
}

func TestCreateComputesTotalFromNights(t *testing.T) {
	f := newFixture()
	res := f.book(101, 10, 15)

	assert.Equal(t, 5, res.Nights())
	assert.True(t, res.TotalAmount.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, domain.ReservationPending, res.Status)
}

func TestCreateAgencyRequiresName(t *testing.T) {
	f := newFixture()

	_, err := f.service.Create(manager, CreateReservationInput{
		RoomID:      101,
		GuestName:   "Tour Lead",
		CheckIn:     day(10),
		CheckOut:    day(12),
		NightlyRate: decimal.NewFromInt(800),
		PayerType:   domain.PayerAgency,
	})
	assert.Error(t, err)
}

func TestCreateWithInitialPaymentWritesLedger(t *testing.T) {
	f := newFixture()

	result, err := f.service.Create(manager, CreateReservationInput{
		RoomID:      101,
		GuestName:   "Guest",
		CheckIn:     day(10),
		CheckOut:    day(12),
		NightlyRate: decimal.NewFromInt(800),
		InitialPayment: &PaymentInput{
			Amount: decimal.NewFromInt(500),
			Method: domain.PaymentCard,
		},
	})
	require.NoError(t, err)
	assert.Nil(t, result.Warning)
	assert.True(t, result.Reservation.AmountPaid.Equal(decimal.NewFromInt(500)))

	entries, err := f.ledger.ListByReservation(result.Reservation.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.LedgerIncome, entries[0].Direction)
	assert.Equal(t, domain.LedgerConfirmed, entries[0].Status, "card payments confirm immediately")
	assert.NotEmpty(t, entries[0].ID)
}

func TestCashPaymentLandsPending(t *testing.T) {
	f := newFixture()
	res := f.book(101, 10, 12)

	result, err := f.service.RecordPayment(manager, res.ID, PaymentInput{
		Amount: decimal.NewFromInt(300),
		Method: domain.PaymentCash,
	})
	require.NoError(t, err)
	assert.Nil(t, result.Warning)

	entries, err := f.ledger.ListByReservation(res.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.LedgerPending, entries[0].Status)

	totals, err := f.ledger.SumByReservation(res.ID)
	require.NoError(t, err)
	assert.True(t, totals.Paid().Equal(decimal.NewFromInt(300)),
		"pending income still counts toward the paid total")
}

func TestLedgerFailureIsWarningNotError(t *testing.T) {
	f := newFixture()
	res := f.book(101, 10, 12)

	f.ledger.FailAppends = errors.New("ledger store down")
	result, err := f.service.RecordPayment(manager, res.ID, PaymentInput{
		Amount: decimal.NewFromInt(300),
		Method: domain.PaymentCard,
	})
	require.NoError(t, err, "the payment on the reservation must stand")
	require.NotNil(t, result.Warning)
	assert.Equal(t, res.ID, result.Warning.ReservationID)
	assert.True(t, result.Reservation.AmountPaid.Equal(decimal.NewFromInt(300)))
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name string
		from domain.ReservationStatus
		to   domain.ReservationStatus
		ok   bool
	}{
		{"pending to confirmed", domain.ReservationPending, domain.ReservationConfirmed, true},
		{"pending to no-show", domain.ReservationPending, domain.ReservationNoShow, true},
		{"pending to checked-in", domain.ReservationPending, domain.ReservationCheckedIn, false},
		{"confirmed to checked-in", domain.ReservationConfirmed, domain.ReservationCheckedIn, true},
		{"confirmed to no-show", domain.ReservationConfirmed, domain.ReservationNoShow, true},
		{"confirmed to checked-out", domain.ReservationConfirmed, domain.ReservationCheckedOut, false},
		{"checked-in to checked-out", domain.ReservationCheckedIn, domain.ReservationCheckedOut, true},
		{"checked-in to no-show", domain.ReservationCheckedIn, domain.ReservationNoShow, false},
		{"checked-in back to confirmed", domain.ReservationCheckedIn, domain.ReservationConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			res := f.book(101, 10, 15)
			res.Status = tt.from
			require.NoError(t, f.reservations.Update(res))

			_, err := f.service.ChangeStatus(manager, res.ID, tt.to)
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			var transition *domain.InvalidTransitionError
			assert.True(t, errors.As(err, &transition))
		})
	}
}

func TestChangeStatusRefusesCancellation(t *testing.T) {
	f := newFixture()
	res := f.book(101, 10, 15)

	_, err := f.service.ChangeStatus(manager, res.ID, domain.ReservationCancelled)
	assert.Error(t, err, "cancellation must go through Cancel with a refund decision")
}

func TestCheckInAndOutMoveRoomState(t *testing.T) {
	f := newFixture()
	res := f.book(101, 10, 15)

	_, err := f.service.ChangeStatus(manager, res.ID, domain.ReservationConfirmed)
	require.NoError(t, err)
	_, err = f.service.ChangeStatus(manager, res.ID, domain.ReservationCheckedIn)
	require.NoError(t, err)

	room, err := f.rooms.GetByID(101)
	require.NoError(t, err)
	assert.Equal(t, domain.RoomOccupied, room.Status)

	_, err = f.service.ChangeStatus(manager, res.ID, domain.ReservationCheckedOut)
	require.NoError(t, err)

	room, err = f.rooms.GetByID(101)
	require.NoError(t, err)
	assert.Equal(t, domain.RoomAvailable, room.Status)
	assert.Equal(t, domain.RoomNeedsCleaning, room.Cleanliness)
}

func TestCancelFullRefundCreatesPendingExpense(t *testing.T) {
	f := newFixture()
	res := f.book(101, 10, 15)
	_, err := f.service.RecordPayment(manager, res.ID, PaymentInput{
		Amount: decimal.NewFromInt(2000),
		Method: domain.PaymentCard,
	})
	require.NoError(t, err)

	result, err := f.service.Cancel(manager, res.ID, domain.RefundDecision{Choice: domain.RefundFull})
	require.NoError(t, err)
	assert.Nil(t, result.Warning)
	assert.Equal(t, domain.ReservationCancelled, result.Reservation.Status)
	assert.True(t, result.RefundAmount.Equal(decimal.NewFromInt(2000)))

	entries, err := f.ledger.ListByReservation(res.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	refund := entries[1]
	assert.Equal(t, domain.LedgerExpense, refund.Direction)
	assert.Equal(t, domain.LedgerPending, refund.Status, "refunds wait for manager approval")
	assert.True(t, refund.Amount.Equal(decimal.NewFromInt(2000)))
}

func TestCancelNoRefundWritesNoEntry(t *testing.T) {
	f := newFixture()
	res := f.book(101, 10, 15)

	result, err := f.service.Cancel(manager, res.ID, domain.RefundDecision{Choice: domain.RefundNone})
	require.NoError(t, err)
	assert.True(t, result.RefundAmount.IsZero())

	entries, err := f.ledger.ListByReservation(res.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCancelPartialRefundRequiresAmount(t *testing.T) {
	f := newFixture()
	res := f.book(101, 10, 15)

	_, err := f.service.Cancel(manager, res.ID, domain.RefundDecision{Choice: domain.RefundPartial})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	got, err := f.service.GetByID(res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationPending, got.Status, "a refused refund decision changes nothing")
}

func TestCancelFreesTheRoom(t *testing.T) {
	f := newFixture()
	res := f.book(101, 10, 15)

	_, err := f.service.Cancel(manager, res.ID, domain.RefundDecision{Choice: domain.RefundNone})
	require.NoError(t, err)

	result, err := f.service.Create(manager, CreateReservationInput{
		RoomID:      101,
		GuestName:   "Next Guest",
		CheckIn:     day(10),
		CheckOut:    day(15),
		NightlyRate: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	assert.NotZero(t, result.Reservation.ID)
}

func TestReopenMatrix(t *testing.T) {
	tests := []struct {
		name      string
		actor     domain.Actor
		confirmed bool
		wantErr   error
	}{
		{"front desk refused", frontDesk, true, domain.ErrPermission},
		{"manager without confirmation", manager, false, domain.ErrConfirmationMismatch},
		{"manager confirmed", manager, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			res := f.book(101, 10, 15)
			_, err := f.service.Cancel(manager, res.ID, domain.RefundDecision{Choice: domain.RefundNone})
			require.NoError(t, err)

			got, err := f.service.Reopen(tt.actor, res.ID, domain.ReservationPending, tt.confirmed)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.ReservationPending, got.Status)
		})
	}
}

func TestReopenReChecksConflicts(t *testing.T) {
	f := newFixture()
	res := f.book(101, 10, 15)
	_, err := f.service.Cancel(manager, res.ID, domain.RefundDecision{Choice: domain.RefundNone})
	require.NoError(t, err)

	// The room was rebooked while the reservation sat cancelled.
	f.book(101, 12, 17)

	_, err = f.service.Reopen(manager, res.ID, domain.ReservationPending, true)
	assert.ErrorIs(t, err, domain.ErrOverlap)
}

func TestReopenOnlyFromCancelled(t *testing.T) {
	f := newFixture()
	res := f.book(101, 10, 15)

	_, err := f.service.Reopen(manager, res.ID, domain.ReservationConfirmed, true)
	require.Error(t, err)
	var transition *domain.InvalidTransitionError
	assert.True(t, errors.As(err, &transition))
}

func TestDeleteRequiresExactPhrase(t *testing.T) {
	f := newFixture()
	res := f.book(101, 10, 15)

	assert.ErrorIs(t, f.service.Delete(frontDesk, res.ID, domain.DeleteConfirmationPhrase), domain.ErrPermission)
	assert.ErrorIs(t, f.service.Delete(manager, res.ID, "delete"), domain.ErrConfirmationMismatch)
	assert.ErrorIs(t, f.service.Delete(manager, res.ID, "yes"), domain.ErrConfirmationMismatch)

	require.NoError(t, f.service.Delete(manager, res.ID, domain.DeleteConfirmationPhrase))
	_, err := f.service.GetByID(res.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestShiftGating(t *testing.T) {
	f := newFixture()

	input := CreateReservationInput{
		RoomID:      101,
		GuestName:   "Guest",
		CheckIn:     day(10),
		CheckOut:    day(12),
		NightlyRate: decimal.NewFromInt(800),
	}

	_, err := f.service.Create(frontDesk, input)
	assert.ErrorIs(t, err, domain.ErrNoOpenShift)
	conflicts, err := f.reservations.FindOverlapping(101, day(1), day(30), 0)
	require.NoError(t, err)
	assert.Empty(t, conflicts, "a gated create must not write anything")

	f.shifts.Open(frontDesk.ID, today())
	_, err = f.service.Create(frontDesk, input)
	assert.NoError(t, err)
}

func TestCancelIsNotShiftGated(t *testing.T) {
	f := newFixture()
	res := f.book(101, 10, 15)

	// No open shift for the front desk actor; the pending refund entry is
	// the financial control, not the gate.
	_, err := f.service.Cancel(frontDesk, res.ID, domain.RefundDecision{Choice: domain.RefundNone})
	assert.NoError(t, err)
}

func TestUpdateRejectsTerminalStatuses(t *testing.T) {
	f := newFixture()
	res := f.book(101, 10, 15)
	res.Status = domain.ReservationCheckedOut
	require.NoError(t, f.reservations.Update(res))

	rate := decimal.NewFromInt(1200)
	_, err := f.service.Update(manager, res.ID, UpdateReservationInput{NightlyRate: &rate})
	assert.Error(t, err)
}

func TestUpdateAuditsDateChange(t *testing.T) {
	f := newFixture()
	res := f.book(101, 10, 15)

	newOut := day(17)
	result, err := f.service.Update(manager, res.ID, UpdateReservationInput{CheckOut: &newOut})
	require.NoError(t, err)
	assert.Contains(t, result.Reservation.Notes, "check_out: 2026-09-15 -> 2026-09-17")
	assert.Contains(t, result.Reservation.Notes, manager.Name)
}

func TestUpdatePaidIncreaseAppendsIncome(t *testing.T) {
	f := newFixture()
	res := f.book(101, 10, 15)

	paid := decimal.NewFromInt(1500)
	result, err := f.service.Update(manager, res.ID, UpdateReservationInput{
		AmountPaid:    &paid,
		PaymentMethod: domain.PaymentTransfer,
	})
	require.NoError(t, err)
	assert.Nil(t, result.Warning)

	entries, err := f.ledger.ListByReservation(res.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, domain.LedgerConfirmed, entries[0].Status)
}

func TestMarkNoShowsSweepsOnlyStale(t *testing.T) {
	f := newFixture()
	past := f.book(101, 1, 5)
	future := f.book(102, 20, 25)
	checkedIn := f.book(103, 1, 5)
	checkedIn.Status = domain.ReservationCheckedIn
	require.NoError(t, f.reservations.Update(checkedIn))

	count, err := f.reservations.MarkNoShows(day(10))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := f.service.GetByID(past.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationNoShow, got.Status)

	got, err = f.service.GetByID(future.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationPending, got.Status)

	got, err = f.service.GetByID(checkedIn.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationCheckedIn, got.Status)
}

func TestFindStaleCheckedIn(t *testing.T) {
	f := newFixture()
	stale := f.book(101, 1, 5)
	stale.Status = domain.ReservationCheckedIn
	require.NoError(t, f.reservations.Update(stale))
	current := f.book(102, 8, 12)
	current.Status = domain.ReservationCheckedIn
	require.NoError(t, f.reservations.Update(current))

	found, err := f.reservations.FindStaleCheckedIn(day(10))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, stale.ID, found[0].ID)
}
