package notify

import (
	"testing"

	"github.com/Maxito7/hotel_frontdesk/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcasterDeliversToAllSubscribers(t *testing.T) {
	b := NewBroadcaster(zerolog.Nop())
	first := b.Subscribe()
	second := b.Subscribe()

	event := LedgerEvent{ReservationID: 7, EntryID: "abc", Direction: domain.LedgerIncome, Status: domain.LedgerConfirmed}
	b.LedgerUpdated(event)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, event, <-first)
	assert.Equal(t, event, <-second)
}

func TestBroadcasterDropsWhenBufferFull(t *testing.T) {
	b := NewBroadcaster(zerolog.Nop())
	ch := b.Subscribe()

	// Overfill the buffer; the publisher must never block.
	for i := 0; i < 40; i++ {
		b.LedgerUpdated(LedgerEvent{ReservationID: i})
	}
	assert.Len(t, ch, 16)
}

func TestBroadcasterWithNoSubscribers(t *testing.T) {
	b := NewBroadcaster(zerolog.Nop())
	b.LedgerUpdated(LedgerEvent{ReservationID: 1}) // must not panic
}
