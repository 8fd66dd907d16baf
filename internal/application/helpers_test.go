package application

import (
	"time"

	"github.com/Maxito7/hotel_frontdesk/internal/domain"
	"github.com/Maxito7/hotel_frontdesk/internal/infrastructure/memory"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	manager   = domain.Actor{ID: 1, Name: "Mona", Role: domain.RoleManager}
	frontDesk = domain.Actor{ID: 2, Name: "Karim", Role: domain.RoleFrontDesk}
)

// fixture wires the full engine over in-memory stores.
type fixture struct {
	reservations *memory.ReservationStore
	rooms        *memory.RoomStore
	ledger       *memory.LedgerStore
	shifts       *memory.ShiftStore
	guard        *ShiftGuard
	detector     *ConflictDetector
	service      *ReservationService
	groups       *GroupService
	allocation   *AllocationService
}

func newFixture() *fixture {
	f := &fixture{
		reservations: memory.NewReservationStore(),
		ledger:       memory.NewLedgerStore(),
		shifts:       memory.NewShiftStore(),
	}
	f.rooms = memory.NewRoomStore(f.reservations)
	f.guard = NewShiftGuard(f.shifts)
	f.detector = NewConflictDetector(f.reservations)
	log := zerolog.Nop()
	f.service = NewReservationService(f.reservations, f.rooms, f.ledger, f.guard, f.detector, nil, nil, log)
	f.groups = NewGroupService(f.reservations, f.service, f.guard, log)
	f.allocation = NewAllocationService(f.reservations, f.rooms, f.ledger, f.guard, f.detector, log)

	f.rooms.Add(domain.Room{ID: 101, Number: "101", Type: "double", Capacity: 2, Status: domain.RoomAvailable, Cleanliness: domain.RoomClean})
	f.rooms.Add(domain.Room{ID: 102, Number: "102", Type: "double", Capacity: 2, Status: domain.RoomAvailable, Cleanliness: domain.RoomClean})
	f.rooms.Add(domain.Room{ID: 103, Number: "103", Type: "double", Capacity: 2, Status: domain.RoomAvailable, Cleanliness: domain.RoomClean})
	f.rooms.Add(domain.Room{ID: 201, Number: "201", Type: "suite", Capacity: 4, Status: domain.RoomAvailable, Cleanliness: domain.RoomClean})
	return f
}

func day(d int) time.Time {
	return time.Date(2026, time.September, d, 0, 0, 0, 0, time.UTC)
}

func (f *fixture) book(roomID, from, to int) *domain.Reservation {
	result, err := f.service.Create(manager, CreateReservationInput{
		RoomID:      roomID,
		GuestName:   "Guest",
		CheckIn:     day(from),
		CheckOut:    day(to),
		NightlyRate: decimal.NewFromInt(1000),
	})
	if err != nil {
		panic(err)
	}
	return result.Reservation
}
