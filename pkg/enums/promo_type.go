package enums

import (
	"fmt"
	"strings"
)

// PromoType is the discount kind of a promo code.
type PromoType string

const (
	PromoTypePercentage PromoType = "Percentage"
	PromoTypeFixed      PromoType = "Fixed"
)

var validPromoTypes = []PromoType{PromoTypePercentage, PromoTypeFixed}

// String implements fmt.Stringer.
func (p PromoType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PromoType.
func (p PromoType) IsValid() bool {
	for _, candidate := range validPromoTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// Wire is the numeric value the create endpoint expects.
func (p PromoType) Wire() int {
	if p == PromoTypeFixed {
		return 1
	}
	return 0
}

// ParsePromoType accepts the display name (any case) or the numeric wire form.
func ParsePromoType(value string) (PromoType, error) {
	trimmed := strings.TrimSpace(value)
	switch trimmed {
	case "0":
		return PromoTypePercentage, nil
	case "1":
		return PromoTypeFixed, nil
	}
	for _, candidate := range validPromoTypes {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid promo type %q", value)
}
