package models

import "time"

type Booking struct {
	ID        int64     `json:"id"`
	RoomID    int64     `json:"room_id"`
	GuestName string    `json:"guest_name"`
	Nights    int64     `json:"nights"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
