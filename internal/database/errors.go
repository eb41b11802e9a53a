package database

import "errors"

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrRoomNotAvailable is returned when a booking targets a room that
	// does not exist or is already booked.
	ErrRoomNotAvailable = errors.New("room not available or does not exist")

	// ErrDuplicateRoomNumber is returned when a room number collides with
	// the unique index on rooms.number.
	ErrDuplicateRoomNumber = errors.New("room number already exists")
)
