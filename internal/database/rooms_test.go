package database

import (
	"context"
	"io"
	"testing"

	"innkeep/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	logger := zerolog.New(io.Discard)
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateRoom(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	room := &models.Room{Number: "101", Type: "standard"}
	err := db.CreateRoom(ctx, room)
	require.NoError(t, err)

	assert.NotZero(t, room.ID)
	assert.True(t, room.IsAvailable)

	got, err := db.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "101", got.Number)
	assert.Equal(t, "standard", got.Type)
	assert.True(t, got.IsAvailable)
}

func TestCreateRoomDuplicateNumber(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreateRoom(ctx, &models.Room{Number: "101", Type: "standard"}))

	err := db.CreateRoom(ctx, &models.Room{Number: "101", Type: "deluxe"})
	assert.ErrorIs(t, err, ErrDuplicateRoomNumber)

	rooms, err := db.ListRooms(ctx, false)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
}

func TestListRoomsAvailableOnly(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	roomA := &models.Room{Number: "101", Type: "standard"}
	roomB := &models.Room{Number: "102", Type: "deluxe"}
	require.NoError(t, db.CreateRoom(ctx, roomA))
	require.NoError(t, db.CreateRoom(ctx, roomB))

	rooms, err := db.ListRooms(ctx, true)
	require.NoError(t, err)
	assert.Len(t, rooms, 2)

	// Booking room A removes it from the available listing.
	booking := &models.Booking{RoomID: roomA.ID, GuestName: "Alice", Nights: 2}
	require.NoError(t, db.BookRoomWithLock(ctx, booking))

	rooms, err = db.ListRooms(ctx, true)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, roomB.ID, rooms[0].ID)

	all, err := db.ListRooms(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetRoomNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetRoom(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
