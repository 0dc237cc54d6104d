package enums

import "fmt"

// OrderStatus tracks the high-level state of an order.
type OrderStatus string

const (
	OrderStatusRequested           OrderStatus = "Requested"
	OrderStatusApproved            OrderStatus = "Approved"
	OrderStatusWaitingToBeAccepted OrderStatus = "WaitingToBeAccepted"
	OrderStatusAccepted            OrderStatus = "Accepted"
	OrderStatusRejected            OrderStatus = "Rejected"
	OrderStatusOutForDelivery      OrderStatus = "OutForDelivery"
	OrderStatusDelivered           OrderStatus = "Delivered"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusRequested,
	OrderStatusApproved,
	OrderStatusWaitingToBeAccepted,
	OrderStatusAccepted,
	OrderStatusRejected,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
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
