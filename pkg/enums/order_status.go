package enums

import "fmt"

// OrderStatus is the numeric order lifecycle state used by the marketplace API.
type OrderStatus int

const (
	OrderStatusPending OrderStatus = iota
	OrderStatusConfirmed
	OrderStatusProcessing
	OrderStatusShipped
	OrderStatusOutForDelivery
	OrderStatusDelivered
	OrderStatusCancelled
)

var orderStatusNames = map[OrderStatus]string{
	OrderStatusPending:        "pending",
	OrderStatusConfirmed:      "confirmed",
	OrderStatusProcessing:     "processing",
	OrderStatusShipped:        "shipped",
	OrderStatusOutForDelivery: "out_for_delivery",
	OrderStatusDelivered:      "delivered",
	OrderStatusCancelled:      "cancelled",
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	if name, ok := orderStatusNames[o]; ok {
		return name
	}
	return fmt.Sprintf("order_status(%d)", int(o))
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	_, ok := orderStatusNames[o]
	return ok
}

// Cancellable reports whether a customer may still cancel the order.
func (o OrderStatus) Cancellable() bool {
	return o == OrderStatusPending || o == OrderStatusConfirmed
}
