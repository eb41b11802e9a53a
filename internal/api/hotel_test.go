package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"innkeep/internal/config"
	"innkeep/internal/database"
	"innkeep/internal/events"
	"innkeep/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHotelServer(t *testing.T) (*HotelServer, *database.DB, *events.EventBus) {
	t.Helper()

	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	bus := events.NewEventBus()
	srv := NewHotelServer(config.HotelConfig{}, db, bus, NewRateLimiter(config.RateLimitConfig{}), &logger)
	return srv, db, bus
}

func doJSON(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHotelServer_CreateRoom(t *testing.T) {
	srv, _, _ := newTestHotelServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/rooms/", `{"number":"101","type":"single"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var room models.Room
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &room))
	assert.NotZero(t, room.ID)
	assert.Equal(t, "101", room.Number)
	assert.True(t, room.IsAvailable)
}

func TestHotelServer_CreateRoomDuplicateNumber(t *testing.T) {
	srv, _, _ := newTestHotelServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/rooms/", `{"number":"101","type":"single"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv.Handler(), http.MethodPost, "/rooms/", `{"number":"101","type":"double"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
}

func TestHotelServer_CreateRoomValidation(t *testing.T) {
	srv, _, _ := newTestHotelServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/rooms/", `{"type":"single"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv.Handler(), http.MethodPost, "/rooms/", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHotelServer_ListRoomsAvailableOnly(t *testing.T) {
	srv, _, _ := newTestHotelServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/rooms/", `{"number":"101","type":"single"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var room models.Room
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &room))

	rec = doJSON(t, srv.Handler(), http.MethodGet, "/rooms/?available_only=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var rooms []models.Room
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rooms))
	require.Len(t, rooms, 1)

	// После бронирования номер исчезает из выборки свободных
	rec = doJSON(t, srv.Handler(), http.MethodPost, "/bookings/", `{"room_id":1,"guest_name":"Alice","nights":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv.Handler(), http.MethodGet, "/rooms/?available_only=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rooms))
	assert.Empty(t, rooms)
}

func TestHotelServer_BookUnavailableRoom(t *testing.T) {
	srv, _, _ := newTestHotelServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/rooms/", `{"number":"101","type":"single"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv.Handler(), http.MethodPost, "/bookings/", `{"room_id":1,"guest_name":"Alice","nights":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv.Handler(), http.MethodPost, "/bookings/", `{"room_id":1,"guest_name":"Bob","nights":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "room not available")

	// Состояние не изменилось: бронь одна
	rec = doJSON(t, srv.Handler(), http.MethodGet, "/bookings/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var bookings []models.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bookings))
	assert.Len(t, bookings, 1)
}

func TestHotelServer_BookNonexistentRoom(t *testing.T) {
	srv, _, _ := newTestHotelServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/bookings/", `{"room_id":99,"guest_name":"Alice","nights":2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHotelServer_CancelBooking(t *testing.T) {
	srv, _, _ := newTestHotelServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/rooms/", `{"number":"101","type":"single"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, srv.Handler(), http.MethodPost, "/bookings/", `{"room_id":1,"guest_name":"Alice","nights":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var booking models.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &booking))

	rec = doJSON(t, srv.Handler(), http.MethodDelete, "/bookings/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "booking cancelled")

	// Номер снова доступен
	rec = doJSON(t, srv.Handler(), http.MethodGet, "/rooms/?available_only=true", "")
	var rooms []models.Room
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rooms))
	assert.Len(t, rooms, 1)
}

func TestHotelServer_CancelMissingBooking(t *testing.T) {
	srv, _, _ := newTestHotelServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodDelete, "/bookings/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, srv.Handler(), http.MethodDelete, "/bookings/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHotelServer_BookingEventsPublished(t *testing.T) {
	srv, _, bus := newTestHotelServer(t)

	var created, cancelled []events.BookingEventPayload
	bus.Subscribe(events.EventBookingCreated, func(event *events.Event) error {
		var p events.BookingEventPayload
		require.NoError(t, json.Unmarshal(event.Payload, &p))
		created = append(created, p)
		return nil
	})
	bus.Subscribe(events.EventBookingCancelled, func(event *events.Event) error {
		var p events.BookingEventPayload
		require.NoError(t, json.Unmarshal(event.Payload, &p))
		cancelled = append(cancelled, p)
		return nil
	})

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/rooms/", `{"number":"101","type":"single"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, srv.Handler(), http.MethodPost, "/bookings/", `{"room_id":1,"guest_name":"Alice","nights":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, srv.Handler(), http.MethodDelete, "/bookings/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, created, 1)
	assert.Equal(t, "Alice", created[0].GuestName)
	require.Len(t, cancelled, 1)
	assert.Equal(t, created[0].BookingID, cancelled[0].BookingID)
}

func TestHotelServer_BookingsReport(t *testing.T) {
	srv, db, _ := newTestHotelServer(t)

	room := &models.Room{Number: "101", Type: "single", IsAvailable: true}
	require.NoError(t, db.CreateRoom(context.Background(), room))

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/reports/bookings.xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, rec.Body.Len())
}

func TestHotelServer_Healthz(t *testing.T) {
	srv, _, _ := newTestHotelServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestHotelServer_RateLimit(t *testing.T) {
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	limiter := NewRateLimiter(config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 2})
	srv := NewHotelServer(config.HotelConfig{}, db, events.NewEventBus(), limiter, &logger)

	var limited bool
	for i := 0; i < 5; i++ {
		rec := doJSON(t, srv.Handler(), http.MethodGet, "/rooms/", "")
		if rec.Code == http.StatusTooManyRequests {
			limited = true
		}
	}
	assert.True(t, limited)
}
