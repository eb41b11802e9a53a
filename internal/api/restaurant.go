package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"innkeep/internal/config"
	"innkeep/internal/models"
	"innkeep/internal/restaurant"

	"github.com/rs/zerolog"
)

const welcomeMessage = "Welcome to the Restaurant Management API!"

// RestaurantServer exposes menu, table booking, order, bill and staff
// operations over HTTP.
type RestaurantServer struct {
	cfg    config.RestaurantConfig
	store  *restaurant.Store
	logger *zerolog.Logger
	server *http.Server
}

func NewRestaurantServer(
	cfg config.RestaurantConfig,
	store *restaurant.Store,
	limiter *RateLimiter,
	logger *zerolog.Logger,
) *RestaurantServer {
	srv := &RestaurantServer{cfg: cfg, store: store, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.handleRoot)
	mux.HandleFunc("/menu", srv.handleMenu)
	mux.HandleFunc("/menu/", srv.handleMenuItem)
	mux.HandleFunc("/bookings", srv.handleTableBookings)
	mux.HandleFunc("/orders", srv.handleOrders)
	mux.HandleFunc("/orders/", srv.handleOrderStatus)
	mux.HandleFunc("/bills", srv.handleBills)
	mux.HandleFunc("/bills/", srv.handleBillPay)
	mux.HandleFunc("/staff", srv.handleStaff)
	mux.HandleFunc("/healthz", handleHealthz)

	handler := loggingMiddleware(logger, "restaurant", limiter.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *RestaurantServer) Handler() http.Handler { return s.server.Handler }

func (s *RestaurantServer) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("Restaurant HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *RestaurantServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *RestaurantServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": welcomeMessage})
}

func (s *RestaurantServer) handleMenu(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.store.ListMenu())
	case http.MethodPost:
		var item models.FoodItem
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(item.Name) == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		writeJSON(w, http.StatusCreated, s.store.AddFoodItem(item))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *RestaurantServer) handleMenuItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/menu/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var item models.FoodItem
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		updated, err := s.store.UpdateFoodItem(id, item)
		if err != nil {
			writeError(w, http.StatusNotFound, "menu item not found")
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		// Удаление отсутствующей позиции тоже отвечает успехом
		s.store.DeleteFoodItem(id)
		writeMessage(w, "Item deleted")
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *RestaurantServer) handleTableBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.store.ListTableBookings())
	case http.MethodPost:
		var booking models.TableBooking
		if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(booking.CustomerName) == "" {
			writeError(w, http.StatusBadRequest, "customer_name is required")
			return
		}
		writeJSON(w, http.StatusCreated, s.store.AddTableBooking(booking))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *RestaurantServer) handleOrders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.store.ListOrders())
	case http.MethodPost:
		var order models.CustomerOrder
		if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if len(order.Items) == 0 {
			writeError(w, http.StatusBadRequest, "items is required")
			return
		}
		writeJSON(w, http.StatusCreated, s.store.PlaceOrder(order))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *RestaurantServer) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/orders/")
	id, ok := strings.CutSuffix(rest, "/status")
	if !ok || id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	status := strings.TrimSpace(r.URL.Query().Get("status"))
	if status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	if err := s.store.UpdateOrderStatus(id, status); err != nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	writeMessage(w, "Status updated")
}

func (s *RestaurantServer) handleBills(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.store.ListBills())
	case http.MethodPost:
		orderID := strings.TrimSpace(r.URL.Query().Get("order_id"))
		if orderID == "" {
			writeError(w, http.StatusBadRequest, "order_id is required")
			return
		}
		bill, err := s.store.GenerateBill(orderID)
		if err != nil {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeJSON(w, http.StatusCreated, bill)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *RestaurantServer) handleBillPay(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/bills/")
	id, ok := strings.CutSuffix(rest, "/pay")
	if !ok || id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := s.store.PayBill(id); err != nil {
		writeError(w, http.StatusNotFound, "bill not found")
		return
	}
	writeMessage(w, "Payment successful")
}

func (s *RestaurantServer) handleStaff(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.store.ListStaff())
	case http.MethodPost:
		var member models.Staff
		if err := json.NewDecoder(r.Body).Decode(&member); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(member.Name) == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		writeJSON(w, http.StatusCreated, s.store.AddStaff(member))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
