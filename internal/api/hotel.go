package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"innkeep/internal/config"
	"innkeep/internal/database"
	"innkeep/internal/events"
	"innkeep/internal/models"
	"innkeep/internal/report"

	"github.com/rs/zerolog"
)

// HotelServer exposes the room and booking API over HTTP.
type HotelServer struct {
	cfg     config.HotelConfig
	db      *database.DB
	bus     *events.EventBus
	reports *report.Generator
	logger  *zerolog.Logger
	server  *http.Server
}

func NewHotelServer(
	cfg config.HotelConfig,
	db *database.DB,
	bus *events.EventBus,
	limiter *RateLimiter,
	logger *zerolog.Logger,
) *HotelServer {
	srv := &HotelServer{
		cfg:     cfg,
		db:      db,
		bus:     bus,
		reports: report.NewGenerator(db, logger),
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/rooms", srv.handleRooms)
	mux.HandleFunc("/rooms/", srv.handleRooms)
	mux.HandleFunc("/bookings", srv.handleBookings)
	mux.HandleFunc("/bookings/", srv.handleBookings)
	mux.HandleFunc("/reports/bookings.xlsx", srv.handleBookingsReport)
	mux.HandleFunc("/healthz", handleHealthz)

	handler := loggingMiddleware(logger, "hotel", limiter.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HotelServer) Handler() http.Handler { return s.server.Handler }

func (s *HotelServer) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("Hotel HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HotelServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *HotelServer) handleRooms(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createRoom(w, r)
	case http.MethodGet:
		s.listRooms(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HotelServer) createRoom(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Number string `json:"number"`
		Type   string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.Number) == "" {
		writeError(w, http.StatusBadRequest, "number is required")
		return
	}

	room := &models.Room{
		Number:      strings.TrimSpace(body.Number),
		Type:        strings.TrimSpace(body.Type),
		IsAvailable: true,
	}

	if err := s.db.CreateRoom(r.Context(), room); err != nil {
		if errors.Is(err, database.ErrDuplicateRoomNumber) {
			writeError(w, http.StatusConflict, "room number already exists")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to create room")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	_ = s.bus.PublishJSON(events.EventRoomCreated, events.BookingEventPayload{
		RoomID:     room.ID,
		RoomNumber: room.Number,
	})

	writeJSON(w, http.StatusCreated, room)
}

func (s *HotelServer) listRooms(w http.ResponseWriter, r *http.Request) {
	availableOnly := false
	if raw := r.URL.Query().Get("available_only"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid available_only value")
			return
		}
		availableOnly = parsed
	}

	rooms, err := s.db.ListRooms(r.Context(), availableOnly)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list rooms")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, rooms)
}

func (s *HotelServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/bookings"), "/")

	switch {
	case rest == "" && r.Method == http.MethodPost:
		s.createBooking(w, r)
	case rest == "" && r.Method == http.MethodGet:
		s.listBookings(w, r)
	case rest != "" && r.Method == http.MethodDelete:
		s.cancelBooking(w, r, rest)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HotelServer) createBooking(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RoomID    int64  `json:"room_id"`
		GuestName string `json:"guest_name"`
		Nights    int64  `json:"nights"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.GuestName) == "" {
		writeError(w, http.StatusBadRequest, "guest_name is required")
		return
	}
	if body.Nights <= 0 {
		writeError(w, http.StatusBadRequest, "nights must be positive")
		return
	}

	booking := &models.Booking{
		RoomID:    body.RoomID,
		GuestName: strings.TrimSpace(body.GuestName),
		Nights:    body.Nights,
	}

	if err := s.db.BookRoomWithLock(r.Context(), booking); err != nil {
		if errors.Is(err, database.ErrRoomNotAvailable) {
			writeError(w, http.StatusBadRequest, database.ErrRoomNotAvailable.Error())
			return
		}
		s.logger.Error().Err(err).Int64("room_id", body.RoomID).Msg("Failed to book room")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	_ = s.bus.PublishJSON(events.EventBookingCreated, events.BookingEventPayload{
		BookingID: booking.ID,
		RoomID:    booking.RoomID,
		GuestName: booking.GuestName,
		Nights:    booking.Nights,
	})

	writeJSON(w, http.StatusCreated, booking)
}

func (s *HotelServer) listBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.db.ListBookings(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list bookings")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *HotelServer) cancelBooking(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	booking, err := s.db.GetBooking(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "booking not found")
			return
		}
		s.logger.Error().Err(err).Int64("booking_id", id).Msg("Failed to load booking")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := s.db.CancelBooking(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "booking not found")
			return
		}
		s.logger.Error().Err(err).Int64("booking_id", id).Msg("Failed to cancel booking")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	_ = s.bus.PublishJSON(events.EventBookingCancelled, events.BookingEventPayload{
		BookingID: booking.ID,
		RoomID:    booking.RoomID,
		GuestName: booking.GuestName,
	})

	writeMessage(w, "booking cancelled")
}

func (s *HotelServer) handleBookingsReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="bookings.xlsx"`)

	if err := s.reports.WriteBookingsReport(r.Context(), w); err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate bookings report")
	}
}
