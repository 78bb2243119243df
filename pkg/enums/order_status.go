package enums

import "fmt"

// OrderStatus is the supplier-side fulfillment track. Rejected orders and
// approved cancellations delete the row instead of using a terminal status.
type OrderStatus string

const (
	OrderStatusPendingConfirmation   OrderStatus = "pending_confirmation"
	OrderStatusAccepted              OrderStatus = "accepted"
	OrderStatusPreparing             OrderStatus = "preparing"
	OrderStatusPacked                OrderStatus = "packed"
	OrderStatusShipped               OrderStatus = "shipped"
	OrderStatusDelivered             OrderStatus = "delivered"
	OrderStatusCompleted             OrderStatus = "completed"
	OrderStatusCancellationRequested OrderStatus = "cancellation_requested"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPendingConfirmation,
	OrderStatusAccepted,
	OrderStatusPreparing,
	OrderStatusPacked,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCompleted,
	OrderStatusCancellationRequested,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
