package domain

import "time"

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomReserved    RoomStatus = "reserved"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
)

type CleanlinessStatus string

const (
	RoomClean         CleanlinessStatus = "clean"
	RoomInCleaning    CleanlinessStatus = "in_cleaning"
	RoomNeedsCleaning CleanlinessStatus = "needs_cleaning"
)

// Room is owned by the catalog subsystem. The engine reads identity, type and
// status for conflict checks and availability suggestions, and writes the
// status transitions triggered by reservation events (check-in, check-out).
type Room struct {
	ID          int               `json:"id"`
	Number      string            `json:"number"`
	Type        string            `json:"type"`
	Capacity    int               `json:"capacity"`
	Status      RoomStatus        `json:"status"`
	Cleanliness CleanlinessStatus `json:"cleanliness"`
}

// RoomRepository defines the room data operations the engine needs.
type RoomRepository interface {
	// GetByID returns the room or a NotFoundError.
	GetByID(id int) (*Room, error)
	// GetAllRooms returns every room.
	GetAllRooms() ([]Room, error)
	// FindAvailableByType returns rooms of the given type with no active
	// reservation overlapping [checkIn, checkOut), excluding rooms under
	// maintenance. Ordered by room number.
	FindAvailableByType(roomType string, checkIn, checkOut time.Time) ([]Room, error)
	// UpdateStatus sets the occupancy status of a room.
	UpdateStatus(id int, status RoomStatus) error
	// UpdateCleanliness sets the housekeeping state of a room.
	UpdateCleanliness(id int, cleanliness CleanlinessStatus) error
}
