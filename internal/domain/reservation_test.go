package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(day int) time.Time {
	return time.Date(2026, time.September, day, 0, 0, 0, 0, time.UTC)
}

func TestOverlapsHalfOpen(t *testing.T) {
	assert.True(t, Overlaps(d(1), d(5), d(4), d(8)))
	assert.True(t, Overlaps(d(4), d(8), d(1), d(5)))
	assert.True(t, Overlaps(d(1), d(10), d(4), d(5)))

	// Touching intervals share a turnover day, not a night.
	assert.False(t, Overlaps(d(1), d(5), d(5), d(8)))
	assert.False(t, Overlaps(d(5), d(8), d(1), d(5)))
	assert.False(t, Overlaps(d(1), d(3), d(6), d(9)))
}

func TestStatusClasses(t *testing.T) {
	active := []ReservationStatus{ReservationPending, ReservationConfirmed, ReservationCheckedIn}
	for _, s := range active {
		assert.True(t, s.Active(), string(s))
		assert.False(t, s.Terminal(), string(s))
	}

	terminal := []ReservationStatus{ReservationCheckedOut, ReservationCancelled, ReservationNoShow}
	for _, s := range terminal {
		assert.False(t, s.Active(), string(s))
		assert.True(t, s.Terminal(), string(s))
	}
}

func TestNights(t *testing.T) {
	r := Reservation{CheckIn: d(10), CheckOut: d(15)}
	assert.Equal(t, 5, r.Nights())
}

func TestGroupKeyOnlyForAgencies(t *testing.T) {
	agency := Reservation{PayerType: PayerAgency, AgencyName: "Nile Tours", CheckIn: d(10), CheckOut: d(15)}
	key, ok := agency.GroupKey()
	assert.True(t, ok)
	assert.Equal(t, "Nile Tours", key.AgencyName)

	individual := Reservation{PayerType: PayerIndividual, CheckIn: d(10), CheckOut: d(15)}
	_, ok = individual.GroupKey()
	assert.False(t, ok)

	unnamed := Reservation{PayerType: PayerAgency, CheckIn: d(10), CheckOut: d(15)}
	_, ok = unnamed.GroupKey()
	assert.False(t, ok)

	// Same agency, different dates: a different group.
	other := Reservation{PayerType: PayerAgency, AgencyName: "Nile Tours", CheckIn: d(11), CheckOut: d(15)}
	otherKey, _ := other.GroupKey()
	assert.NotEqual(t, key, otherKey)
}

func TestPaymentMethodEntryStatus(t *testing.T) {
	assert.Equal(t, LedgerPending, PaymentCash.EntryStatus())
	assert.Equal(t, LedgerPending, PaymentInstapay.EntryStatus())
	assert.Equal(t, LedgerConfirmed, PaymentCard.EntryStatus())
	assert.Equal(t, LedgerConfirmed, PaymentTransfer.EntryStatus())
}

func TestLedgerTotalsPaid(t *testing.T) {
	totals := LedgerTotals{
		ConfirmedIncome:  decimal.NewFromInt(1000),
		PendingIncome:    decimal.NewFromInt(300),
		ConfirmedExpense: decimal.NewFromInt(100),
		PendingExpense:   decimal.NewFromInt(50),
	}
	assert.True(t, totals.Paid().Equal(decimal.NewFromInt(1150)))
	assert.True(t, totals.Refunded().Equal(decimal.NewFromInt(150)))
}

func TestRoleManagement(t *testing.T) {
	assert.True(t, RoleManager.Management())
	assert.True(t, RoleAssistantManager.Management())
	assert.False(t, RoleFrontDesk.Management())
	assert.False(t, RoleHousekeeping.Management())
}
