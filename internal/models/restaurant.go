package models

// FoodItem is a single menu entry. The yaml tags cover the seed file
// loaded at restaurant startup.
type FoodItem struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Price       float64 `json:"price" yaml:"price"`
	Available   bool    `json:"available" yaml:"available"`
}

type TableBooking struct {
	ID           string `json:"id"`
	CustomerName string `json:"customer_name"`
	TableNumber  int64  `json:"table_number"`
	Time         string `json:"time"`
	Guests       int64  `json:"guests"`
}

type OrderItem struct {
	ItemID   string `json:"item_id"`
	Quantity int64  `json:"quantity"`
}

type CustomerOrder struct {
	ID           string      `json:"id"`
	CustomerName string      `json:"customer_name"`
	TableNumber  int64       `json:"table_number"`
	Items        []OrderItem `json:"items"`
	Status       string      `json:"status"`
}

type Bill struct {
	ID          string  `json:"id"`
	OrderID     string  `json:"order_id"`
	TotalAmount float64 `json:"total_amount"`
	Paid        bool    `json:"paid"`
}

type Staff struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}
