package application

import (
	"testing"

	"github.com/Maxito7/hotel_frontdesk/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nileToursGroup() CreateGroupInput {
	return CreateGroupInput{
		AgencyName:  "Nile Tours",
		RoomIDs:     []int{101, 102, 103},
		GuestName:   "Tour Lead",
		CheckIn:     day(10),
		CheckOut:    day(15),
		NightlyRate: decimal.NewFromInt(1000),
		GuestCount:  2,
	}
}

func TestCreateGroupBooksEveryRoom(t *testing.T) {
	f := newFixture()

	results, err := f.groups.CreateGroup(manager, nileToursGroup())
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Empty(t, r.Error)
		assert.NotZero(t, r.ReservationID)
	}

	members, err := f.groups.Members(results[0].ReservationID)
	require.NoError(t, err)
	assert.Len(t, members, 3)
	for _, m := range members {
		assert.Equal(t, domain.PayerAgency, m.PayerType)
		assert.Equal(t, "Nile Tours", m.AgencyName)
	}
}

func TestCreateGroupPartialFailureKeepsSuccesses(t *testing.T) {
	f := newFixture()
	f.book(102, 12, 14) // blocks one of the three rooms

	results, err := f.groups.CreateGroup(manager, nileToursGroup())
	require.NoError(t, err)
	require.Len(t, results, 3)

	var booked, failed int
	for _, r := range results {
		if r.Error == "" {
			booked++
		} else {
			failed++
			assert.Equal(t, 102, r.RoomID)
			assert.ErrorIs(t, r.Err(), domain.ErrOverlap)
		}
	}
	assert.Equal(t, 2, booked, "the conflict on one room must not undo the others")
	assert.Equal(t, 1, failed)
}

func TestGroupMembershipIsLive(t *testing.T) {
	f := newFixture()
	results, err := f.groups.CreateGroup(manager, nileToursGroup())
	require.NoError(t, err)

	// Cancel one member; it must drop out of the group on the next read.
	_, err = f.service.Cancel(manager, results[1].ReservationID, domain.RefundDecision{Choice: domain.RefundNone})
	require.NoError(t, err)

	members, err := f.groups.Members(results[0].ReservationID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
	for _, m := range members {
		assert.NotEqual(t, results[1].ReservationID, m.ID)
	}
}

func TestApplyDiscountHitsOnlyLiveMembers(t *testing.T) {
	f := newFixture()
	results, err := f.groups.CreateGroup(manager, nileToursGroup())
	require.NoError(t, err)

	_, err = f.service.Cancel(manager, results[2].ReservationID, domain.RefundDecision{Choice: domain.RefundNone})
	require.NoError(t, err)

	updated, err := f.groups.ApplyDiscount(manager, results[0].ReservationID, decimal.NewFromInt(10), nil)
	require.NoError(t, err)
	require.Len(t, updated, 2)
	for _, m := range updated {
		assert.True(t, m.NightlyRate.Equal(decimal.NewFromInt(900)), "10 percent off 1000")
		assert.True(t, m.TotalAmount.Equal(decimal.NewFromInt(4500)))
		assert.Contains(t, m.Notes, "group discount 10% applied")
	}

	// The cancelled member keeps its original price.
	cancelled, err := f.service.GetByID(results[2].ReservationID)
	require.NoError(t, err)
	assert.True(t, cancelled.NightlyRate.Equal(decimal.NewFromInt(1000)))
}

func TestApplyDiscountTargetsSubset(t *testing.T) {
	f := newFixture()
	results, err := f.groups.CreateGroup(manager, nileToursGroup())
	require.NoError(t, err)

	updated, err := f.groups.ApplyDiscount(manager, results[0].ReservationID,
		decimal.NewFromInt(50), []int{results[0].ReservationID})
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, results[0].ReservationID, updated[0].ID)

	untouched, err := f.service.GetByID(results[1].ReservationID)
	require.NoError(t, err)
	assert.True(t, untouched.NightlyRate.Equal(decimal.NewFromInt(1000)))
}

func TestApplyDiscountValidatesPercent(t *testing.T) {
	f := newFixture()
	results, err := f.groups.CreateGroup(manager, nileToursGroup())
	require.NoError(t, err)

	_, err = f.groups.ApplyDiscount(manager, results[0].ReservationID, decimal.NewFromInt(101), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidPercent)

	_, err = f.groups.ApplyDiscount(manager, results[0].ReservationID, decimal.NewFromInt(-1), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidPercent)
}

func TestEditGroupSplitsAggregatePaid(t *testing.T) {
	f := newFixture()
	results, err := f.groups.CreateGroup(manager, nileToursGroup())
	require.NoError(t, err)

	total := decimal.NewFromInt(10000)
	edits, err := f.groups.EditGroup(manager, results[0].ReservationID, EditGroupInput{
		TotalPaid: &total,
		Method:    domain.PaymentTransfer,
	})
	require.NoError(t, err)
	require.Len(t, edits, 3)

	var sum decimal.Decimal
	for _, e := range edits {
		assert.Empty(t, e.Error)
		m, err := f.service.GetByID(e.ReservationID)
		require.NoError(t, err)
		sum = sum.Add(m.AmountPaid)
	}
	assert.True(t, sum.Equal(total), "split shares must add back up to the aggregate")
}

func TestDeleteGroupRequiresRoleAndPhrase(t *testing.T) {
	f := newFixture()
	results, err := f.groups.CreateGroup(manager, nileToursGroup())
	require.NoError(t, err)

	_, err = f.groups.DeleteGroup(frontDesk, results[0].ReservationID, domain.DeleteConfirmationPhrase)
	assert.ErrorIs(t, err, domain.ErrPermission)

	_, err = f.groups.DeleteGroup(manager, results[0].ReservationID, "delete all")
	assert.ErrorIs(t, err, domain.ErrConfirmationMismatch)

	deleted, err := f.groups.DeleteGroup(manager, results[0].ReservationID, domain.DeleteConfirmationPhrase)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	for _, r := range results {
		_, err := f.service.GetByID(r.ReservationID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
}

func TestIndividualReservationHasNoGroup(t *testing.T) {
	f := newFixture()
	res := f.book(101, 10, 15)

	_, err := f.groups.Members(res.ID)
	assert.Error(t, err)
}
