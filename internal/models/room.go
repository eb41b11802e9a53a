package models

import "time"

type Room struct {
	ID          int64     `json:"id"`
	Number      string    `json:"number"`
	Type        string    `json:"type"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
