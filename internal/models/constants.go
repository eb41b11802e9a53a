package models

// Nominal order statuses. The store accepts any string; these are the
// values clients are expected to send.
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusServed    = "served"
	OrderStatusCancelled = "cancelled"
)

const (
	// DefaultTodoLimit размер страницы списка задач по умолчанию
	DefaultTodoLimit = 10

	// DefaultRedisTTL время жизни записей задач в Redis (0 = без TTL)
	DefaultRedisTTL = 0
)
