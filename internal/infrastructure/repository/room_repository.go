package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Maxito7/hotel_frontdesk/internal/domain"
)

type roomRepository struct {
	db *sql.DB
}

// NewRoomRepository creates the Postgres-backed room store.
func NewRoomRepository(db *sql.DB) domain.RoomRepository {
	return &roomRepository{db: db}
}

// GetByID returns one room.
func (r *roomRepository) GetByID(id int) (*domain.Room, error) {
	query := `
		SELECT id, number, type, capacity, status, cleanliness
		FROM rooms
		WHERE id = $1
	`

	room := &domain.Room{}
	err := r.db.QueryRow(query, id).Scan(
		&room.ID,
		&room.Number,
		&room.Type,
		&room.Capacity,
		&room.Status,
		&room.Cleanliness,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &domain.NotFoundError{Entity: "room", ID: id}
		}
		return nil, fmt.Errorf("error getting room: %w", err)
	}
	return room, nil
}

// GetAllRooms returns every room ordered by number.
func (r *roomRepository) GetAllRooms() ([]domain.Room, error) {
	query := `
		SELECT id, number, type, capacity, status, cleanliness
		FROM rooms
		ORDER BY number
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error getting rooms: %w", err)
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		var room domain.Room
		err := rows.Scan(
			&room.ID,
			&room.Number,
			&room.Type,
			&room.Capacity,
			&room.Status,
			&room.Cleanliness,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning room: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rooms: %w", err)
	}
	return rooms, nil
}

// FindAvailableByType returns the rooms of the given type, rooms out for
// maintenance excluded, that carry no active reservation intersecting the
// half-open [checkIn, checkOut) range.
func (r *roomRepository) FindAvailableByType(roomType string, checkIn, checkOut time.Time) ([]domain.Room, error) {
	query := `
		SELECT room.id, room.number, room.type, room.capacity, room.status, room.cleanliness
		FROM rooms room
		WHERE room.type = $1
		AND room.status <> 'maintenance'
		AND NOT EXISTS (
			SELECT 1
			FROM reservations res
			WHERE res.room_id = room.id
			AND res.status IN ('pending', 'confirmed', 'checked_in')
			AND res.check_in < $3
			AND $2 < res.check_out
		)
		ORDER BY room.number
	`

	rows, err := r.db.Query(query, roomType, checkIn, checkOut)
	if err != nil {
		return nil, fmt.Errorf("error finding available rooms: %w", err)
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		var room domain.Room
		err := rows.Scan(
			&room.ID,
			&room.Number,
			&room.Type,
			&room.Capacity,
			&room.Status,
			&room.Cleanliness,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning room: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rooms: %w", err)
	}
	return rooms, nil
}

// UpdateStatus sets the room's occupancy status.
func (r *roomRepository) UpdateStatus(id int, status domain.RoomStatus) error {
	return r.updateColumn(id, "status", string(status))
}

// UpdateCleanliness sets the room's housekeeping status.
func (r *roomRepository) UpdateCleanliness(id int, cleanliness domain.CleanlinessStatus) error {
	return r.updateColumn(id, "cleanliness", string(cleanliness))
}

func (r *roomRepository) updateColumn(id int, column, value string) error {
	query := fmt.Sprintf(`UPDATE rooms SET %s = $1 WHERE id = $2`, column)

	result, err := r.db.Exec(query, value, id)
	if err != nil {
		return fmt.Errorf("error updating room %s: %w", column, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.NotFoundError{Entity: "room", ID: id}
	}
	return nil
}
