// Package memory provides mutex-guarded in-memory implementations of the
// domain repositories. They mirror the Postgres behavior closely enough for
// tests: the reservation store runs the same check-then-write overlap guard
// under its lock that the SQL store runs inside its transaction.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/Maxito7/hotel_frontdesk/internal/domain"
)

// ReservationStore is the in-memory domain.ReservationRepository.
type ReservationStore struct {
	mu     sync.Mutex
	nextID int
	items  map[int]domain.Reservation

	// FailWrites forces every mutation to return this error; tests use it
	// to exercise partial-failure paths.
	FailWrites error
}

// NewReservationStore creates an empty reservation store.
func NewReservationStore() *ReservationStore {
	return &ReservationStore{nextID: 1, items: make(map[int]domain.Reservation)}
}

// GetByID returns a copy of the reservation.
func (s *ReservationStore) GetByID(id int) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.items[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "reservation", ID: id}
	}
	return &res, nil
}

// Create assigns an ID and stores the reservation, enforcing the overlap
// invariant for active statuses under the store lock.
func (s *ReservationStore) Create(res *domain.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	if res.Status.Active() {
		if conflicts := s.overlapping(res.RoomID, res.CheckIn, res.CheckOut, 0); len(conflicts) > 0 {
			return &domain.OverlapError{
				RoomID:    res.RoomID,
				CheckIn:   res.CheckIn,
				CheckOut:  res.CheckOut,
				Conflicts: conflicts,
			}
		}
	}
	res.ID = s.nextID
	s.nextID++
	s.items[res.ID] = *res
	return nil
}

// Update rewrites a reservation, re-running the overlap check when it stays
// active and still holds a room.
func (s *ReservationStore) Update(res *domain.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	if _, ok := s.items[res.ID]; !ok {
		return &domain.NotFoundError{Entity: "reservation", ID: res.ID}
	}
	if res.Status.Active() && res.RoomID != 0 {
		if conflicts := s.overlapping(res.RoomID, res.CheckIn, res.CheckOut, res.ID); len(conflicts) > 0 {
			return &domain.OverlapError{
				RoomID:    res.RoomID,
				CheckIn:   res.CheckIn,
				CheckOut:  res.CheckOut,
				Conflicts: conflicts,
			}
		}
	}
	s.items[res.ID] = *res
	return nil
}

// Delete removes a reservation.
func (s *ReservationStore) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	if _, ok := s.items[id]; !ok {
		return &domain.NotFoundError{Entity: "reservation", ID: id}
	}
	delete(s.items, id)
	return nil
}

// FindOverlapping returns active reservations intersecting the range.
func (s *ReservationStore) FindOverlapping(roomID int, checkIn, checkOut time.Time, excludeID int) ([]domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlapping(roomID, checkIn, checkOut, excludeID), nil
}

func (s *ReservationStore) overlapping(roomID int, checkIn, checkOut time.Time, excludeID int) []domain.Reservation {
	var out []domain.Reservation
	for _, res := range s.items {
		if res.RoomID != roomID || res.ID == excludeID || !res.Status.Active() {
			continue
		}
		if domain.Overlaps(res.CheckIn, res.CheckOut, checkIn, checkOut) {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out
}

// FindByGroupKey returns the live members sharing the group identity.
func (s *ReservationStore) FindByGroupKey(key domain.GroupKey) ([]domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Reservation
	for _, res := range s.items {
		k, ok := res.GroupKey()
		if ok && k == key && res.Status.Active() {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomID < out[j].RoomID })
	return out, nil
}

// MarkNoShows flips stale pending and confirmed reservations to no_show.
func (s *ReservationStore) MarkNoShows(asOf time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for id, res := range s.items {
		if res.Status != domain.ReservationPending && res.Status != domain.ReservationConfirmed {
			continue
		}
		if res.CheckIn.Before(asOf) {
			res.Status = domain.ReservationNoShow
			res.UpdatedBy = "system"
			res.UpdatedAt = time.Now()
			s.items[id] = res
			count++
		}
	}
	return count, nil
}

func (s *ReservationStore) FindStaleCheckedIn(asOf time.Time) ([]domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stale []domain.Reservation
	for _, res := range s.items {
		if res.Status == domain.ReservationCheckedIn && res.CheckOut.Before(asOf) {
			stale = append(stale, res)
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i].CheckOut.Before(stale[j].CheckOut) })
	return stale, nil
}

// RoomStore is the in-memory domain.RoomRepository.
type RoomStore struct {
	mu           sync.Mutex
	items        map[int]domain.Room
	reservations *ReservationStore
}

// NewRoomStore creates a room store. reservations may be nil when
// availability lookups are not needed.
func NewRoomStore(reservations *ReservationStore) *RoomStore {
	return &RoomStore{items: make(map[int]domain.Room), reservations: reservations}
}

// Add stores a room.
func (s *RoomStore) Add(room domain.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[room.ID] = room
}

// GetByID returns a copy of the room.
func (s *RoomStore) GetByID(id int) (*domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.items[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "room", ID: id}
	}
	return &room, nil
}

// GetAllRooms returns every room ordered by number.
func (s *RoomStore) GetAllRooms() ([]domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Room, 0, len(s.items))
	for _, room := range s.items {
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// FindAvailableByType returns the rooms of the given type with no active
// reservation intersecting the range, rooms out for maintenance excluded.
func (s *RoomStore) FindAvailableByType(roomType string, checkIn, checkOut time.Time) ([]domain.Room, error) {
	rooms, err := s.GetAllRooms()
	if err != nil {
		return nil, err
	}
	var out []domain.Room
	for _, room := range rooms {
		if room.Type != roomType || room.Status == domain.RoomMaintenance {
			continue
		}
		if s.reservations != nil {
			conflicts, err := s.reservations.FindOverlapping(room.ID, checkIn, checkOut, 0)
			if err != nil {
				return nil, err
			}
			if len(conflicts) > 0 {
				continue
			}
		}
		out = append(out, room)
	}
	return out, nil
}

// UpdateStatus sets the room's occupancy status.
func (s *RoomStore) UpdateStatus(id int, status domain.RoomStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.items[id]
	if !ok {
		return &domain.NotFoundError{Entity: "room", ID: id}
	}
	room.Status = status
	s.items[id] = room
	return nil
}

// UpdateCleanliness sets the room's housekeeping status.
func (s *RoomStore) UpdateCleanliness(id int, cleanliness domain.CleanlinessStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.items[id]
	if !ok {
		return &domain.NotFoundError{Entity: "room", ID: id}
	}
	room.Cleanliness = cleanliness
	s.items[id] = room
	return nil
}

// LedgerStore is the in-memory domain.LedgerRepository.
type LedgerStore struct {
	mu      sync.Mutex
	entries []domain.LedgerEntry

	// FailAppends forces Append to return this error.
	FailAppends error
}

// NewLedgerStore creates an empty ledger store.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{}
}

// Append stores one entry.
func (s *LedgerStore) Append(entry *domain.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAppends != nil {
		return s.FailAppends
	}
	s.entries = append(s.entries, *entry)
	return nil
}

// SumByReservation aggregates the reservation's entries.
func (s *LedgerStore) SumByReservation(reservationID int) (domain.LedgerTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var totals domain.LedgerTotals
	for _, e := range s.entries {
		if e.ReservationID != reservationID {
			continue
		}
		totals.EntryCount++
		switch {
		case e.Direction == domain.LedgerIncome && e.Status == domain.LedgerConfirmed:
			totals.ConfirmedIncome = totals.ConfirmedIncome.Add(e.Amount)
		case e.Direction == domain.LedgerIncome && e.Status == domain.LedgerPending:
			totals.PendingIncome = totals.PendingIncome.Add(e.Amount)
		case e.Direction == domain.LedgerExpense && e.Status == domain.LedgerConfirmed:
			totals.ConfirmedExpense = totals.ConfirmedExpense.Add(e.Amount)
		case e.Direction == domain.LedgerExpense && e.Status == domain.LedgerPending:
			totals.PendingExpense = totals.PendingExpense.Add(e.Amount)
		}
	}
	return totals, nil
}

// ListByReservation returns the reservation's entries oldest first.
func (s *LedgerStore) ListByReservation(reservationID int) ([]domain.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.LedgerEntry
	for _, e := range s.entries {
		if e.ReservationID == reservationID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ShiftStore is the in-memory domain.ShiftRepository.
type ShiftStore struct {
	mu     sync.Mutex
	shifts []domain.Shift
}

// NewShiftStore creates an empty shift store.
func NewShiftStore() *ShiftStore {
	return &ShiftStore{}
}

// Open records an open shift for the staff member on the given day.
func (s *ShiftStore) Open(staffID int, day time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shifts = append(s.shifts, domain.Shift{
		ID:      len(s.shifts) + 1,
		StaffID: staffID,
		Date:    day,
		Status:  domain.ShiftOpen,
	})
}

// FindOpenShift returns the open shift for the staff member on the day, or
// (nil, nil) when there is none.
func (s *ShiftStore) FindOpenShift(staffID int, day time.Time) (*domain.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.shifts {
		sh := s.shifts[i]
		if sh.StaffID == staffID && sh.Status == domain.ShiftOpen && sh.Date.Equal(day) {
			return &sh, nil
		}
	}
	return nil, nil
}

// StaffStore is the in-memory domain.StaffRepository.
type StaffStore struct {
	mu    sync.Mutex
	items map[int]domain.Staff
}

// NewStaffStore creates an empty staff store.
func NewStaffStore() *StaffStore {
	return &StaffStore{items: make(map[int]domain.Staff)}
}

// Add stores a staff member.
func (s *StaffStore) Add(staff domain.Staff) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[staff.ID] = staff
}

// GetByID returns a copy of the staff member.
func (s *StaffStore) GetByID(id int) (*domain.Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	staff, ok := s.items[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "staff", ID: id}
	}
	return &staff, nil
}
