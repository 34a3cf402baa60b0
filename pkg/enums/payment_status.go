package enums

import "fmt"

// PaymentStatus tracks the payment state of an order.
type PaymentStatus int

const (
	PaymentStatusPending PaymentStatus = iota
	PaymentStatusPaid
	PaymentStatusFailed
	PaymentStatusRefunded
)

var paymentStatusNames = map[PaymentStatus]string{
	PaymentStatusPending:  "pending",
	PaymentStatusPaid:     "paid",
	PaymentStatusFailed:   "failed",
	PaymentStatusRefunded: "refunded",
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	if name, ok := paymentStatusNames[p]; ok {
		return name
	}
	return fmt.Sprintf("payment_status(%d)", int(p))
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	_, ok := paymentStatusNames[p]
	return ok
}
