// Package restaurant holds the restaurant service's in-memory state: menu,
// table bookings, orders, bills, and staff. All collections live for the
// process lifetime only and every check-then-mutate sequence runs under the
// store mutex.
package restaurant

import (
	"errors"
	"sync"

	"innkeep/internal/models"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("record not found")

type Store struct {
	mu sync.RWMutex

	menu          []models.FoodItem
	tableBookings []models.TableBooking
	orders        []models.CustomerOrder
	bills         []models.Bill
	staff         []models.Staff
}

func NewStore() *Store {
	return &Store{}
}

// SeedMenu appends pre-configured menu entries, assigning ids to any entry
// that arrives without one. Used for the startup menu file.
func (s *Store) SeedMenu(items []models.FoodItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		s.menu = append(s.menu, item)
	}
}

// Menu

func (s *Store) AddFoodItem(item models.FoodItem) models.FoodItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = uuid.NewString()
	s.menu = append(s.menu, item)
	return item
}

func (s *Store) ListMenu() []models.FoodItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.FoodItem, len(s.menu))
	copy(out, s.menu)
	return out
}

// UpdateFoodItem replaces the whole record except the id.
func (s *Store) UpdateFoodItem(id string, item models.FoodItem) (models.FoodItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.menu {
		if s.menu[i].ID == id {
			item.ID = id
			s.menu[i] = item
			return item, nil
		}
	}
	return models.FoodItem{}, ErrNotFound
}

// DeleteFoodItem removes the entry when present and silently succeeds when
// it is not.
func (s *Store) DeleteFoodItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.menu[:0]
	for _, item := range s.menu {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.menu = kept
}

// Table bookings

func (s *Store) AddTableBooking(booking models.TableBooking) models.TableBooking {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking.ID = uuid.NewString()
	s.tableBookings = append(s.tableBookings, booking)
	return booking
}

func (s *Store) ListTableBookings() []models.TableBooking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.TableBooking, len(s.tableBookings))
	copy(out, s.tableBookings)
	return out
}

// Orders

func (s *Store) PlaceOrder(order models.CustomerOrder) models.CustomerOrder {
	s.mu.Lock()
	defer s.mu.Unlock()

	order.ID = uuid.NewString()
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	s.orders = append(s.orders, order)
	return order
}

func (s *Store) ListOrders() []models.CustomerOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.CustomerOrder, len(s.orders))
	copy(out, s.orders)
	return out
}

// UpdateOrderStatus mutates the order's status in place. The status string
// is not validated here; see models.OrderStatus* for the nominal set.
func (s *Store) UpdateOrderStatus(id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
			return nil
		}
	}
	return ErrNotFound
}

// Bills

// GenerateBill totals the order against the current menu. Order items with
// no matching menu entry contribute zero rather than failing the bill.
func (s *Store) GenerateBill(orderID string) (models.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var order *models.CustomerOrder
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			order = &s.orders[i]
			break
		}
	}
	if order == nil {
		return models.Bill{}, ErrNotFound
	}

	var total float64
	for _, item := range order.Items {
		for i := range s.menu {
			if s.menu[i].ID == item.ItemID {
				total += float64(item.Quantity) * s.menu[i].Price
				break
			}
		}
	}

	bill := models.Bill{
		ID:          uuid.NewString(),
		OrderID:     orderID,
		TotalAmount: total,
	}
	s.bills = append(s.bills, bill)
	return bill, nil
}

func (s *Store) PayBill(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.bills {
		if s.bills[i].ID == id {
			s.bills[i].Paid = true
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) ListBills() []models.Bill {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Bill, len(s.bills))
	copy(out, s.bills)
	return out
}

// Staff

func (s *Store) AddStaff(member models.Staff) models.Staff {
	s.mu.Lock()
	defer s.mu.Unlock()

	member.ID = uuid.NewString()
	s.staff = append(s.staff, member)
	return member
}

func (s *Store) ListStaff() []models.Staff {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Staff, len(s.staff))
	copy(out, s.staff)
	return out
}
