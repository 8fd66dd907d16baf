package notify

import (
	"sync"

	"github.com/Maxito7/hotel_frontdesk/internal/domain"
	"github.com/rs/zerolog"
)

// LedgerEvent tells observers that the ledger changed for a reservation, so
// dashboards can refresh their totals. It carries no money amounts; observers
// re-query the ledger themselves.
type LedgerEvent struct {
	ReservationID int
	EntryID       string
	Direction     domain.LedgerDirection
	Status        domain.LedgerStatus
}

// Broadcaster fans ledger events out to subscribers. Delivery is
// fire-and-forget: a slow or absent subscriber drops events rather than
// blocking or failing the operation that produced them.
type Broadcaster struct {
	mu   sync.RWMutex
	subs []chan LedgerEvent
	log  zerolog.Logger
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster(log zerolog.Logger) *Broadcaster {
	return &Broadcaster{log: log}
}

// Subscribe returns a buffered channel of ledger events. The caller owns
// draining it; a full buffer loses events.
func (b *Broadcaster) Subscribe() <-chan LedgerEvent {
	ch := make(chan LedgerEvent, 16)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

// LedgerUpdated publishes an event to every subscriber without blocking.
func (b *Broadcaster) LedgerUpdated(event LedgerEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
			b.log.Warn().
				Int("reservation_id", event.ReservationID).
				Msg("dropping ledger event: subscriber not draining")
		}
	}
}
