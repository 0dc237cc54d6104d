package enums

import "fmt"

// ItemStatus tracks the fulfillment state for an order item.
type ItemStatus string

const (
	ItemStatusAccepted       ItemStatus = "Accepted"
	ItemStatusOutOfStock     ItemStatus = "OutOfStock"
	ItemStatusRejected       ItemStatus = "Rejected"
	ItemStatusOutForDelivery ItemStatus = "OutForDelivery"
	ItemStatusDelivered      ItemStatus = "Delivered"
)

var validItemStatuses = []ItemStatus{
	ItemStatusAccepted,
	ItemStatusOutOfStock,
	ItemStatusRejected,
	ItemStatusOutForDelivery,
	ItemStatusDelivered,
}

// String implements fmt.Stringer.
func (s ItemStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ItemStatus.
func (s ItemStatus) IsValid() bool {
	for _, candidate := range validItemStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseItemStatus converts raw input into an ItemStatus.
func ParseItemStatus(value string) (ItemStatus, error) {
	for _, candidate := range validItemStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item status %q", value)
}
