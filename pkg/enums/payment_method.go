package enums

import (
	"fmt"
	"strings"
)

// PaymentMethod is chosen at checkout.
type PaymentMethod string

const (
	PaymentMethodCOD  PaymentMethod = "COD"
	PaymentMethodVisa PaymentMethod = "Visa"
)

var validPaymentMethods = []PaymentMethod{PaymentMethodCOD, PaymentMethodVisa}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw strings into PaymentMethod, defaulting blanks to COD.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return PaymentMethodCOD, nil
	}
	for _, candidate := range validPaymentMethods {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
