package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"innkeep/internal/models"
)

// BookRoomWithLock checks room availability and creates the booking inside
// a single transaction, so two concurrent requests for the same room cannot
// both succeed.
func (db *DB) BookRoomWithLock(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 1. The room must exist and be available inside the transaction.
	var roomID int64
	queryRoom := `SELECT id FROM rooms WHERE id = ? AND is_available = 1`
	err = tx.QueryRowContext(ctx, queryRoom, booking.RoomID).Scan(&roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRoomNotAvailable
	}
	if err != nil {
		return fmt.Errorf("failed to check room availability in tx: %w", err)
	}

	now := time.Now()

	// 2. Flip the availability flag.
	queryFlag := `UPDATE rooms SET is_available = 0, updated_at = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, queryFlag, now, roomID); err != nil {
		return fmt.Errorf("failed to mark room unavailable in tx: %w", err)
	}

	// 3. Create the booking.
	queryInsert := `INSERT INTO bookings (room_id, guest_name, nights, created_at, updated_at)
                    VALUES (?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, queryInsert, booking.RoomID, booking.GuestName, booking.Nights, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert booking in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now

	return tx.Commit()
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	var booking models.Booking
	query := `SELECT id, room_id, guest_name, nights, created_at, updated_at FROM bookings WHERE id = ?`
	err := db.QueryRowContext(ctx, query, id).Scan(
		&booking.ID, &booking.RoomID, &booking.GuestName, &booking.Nights,
		&booking.CreatedAt, &booking.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (db *DB) ListBookings(ctx context.Context) ([]models.Booking, error) {
	query := `SELECT id, room_id, guest_name, nights, created_at, updated_at FROM bookings ORDER BY id`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.RoomID, &b.GuestName, &b.Nights, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}

// CancelBooking deletes the booking and restores the referenced room's
// availability in one transaction. When the room row no longer exists the
// restore touches zero rows and the booking is still removed.
func (db *DB) CancelBooking(ctx context.Context, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var roomID int64
	queryBooking := `SELECT room_id FROM bookings WHERE id = ?`
	err = tx.QueryRowContext(ctx, queryBooking, id).Scan(&roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get booking in tx: %w", err)
	}

	queryFlag := `UPDATE rooms SET is_available = 1, updated_at = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, queryFlag, time.Now(), roomID); err != nil {
		return fmt.Errorf("failed to restore room availability in tx: %w", err)
	}

	queryDelete := `DELETE FROM bookings WHERE id = ?`
	if _, err := tx.ExecContext(ctx, queryDelete, id); err != nil {
		return fmt.Errorf("failed to delete booking in tx: %w", err)
	}

	return tx.Commit()
}
