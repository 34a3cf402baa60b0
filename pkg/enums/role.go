package enums

import (
	"fmt"
	"strings"
)

// Role is the account role returned by the auth endpoints.
type Role string

const (
	RoleAdmin         Role = "Admin"
	RoleVendor        Role = "Vendor"
	RoleCustomer      Role = "Customer"
	RoleDeliveryAgent Role = "DeliveryAgent"
)

var validRoles = []Role{
	RoleAdmin,
	RoleVendor,
	RoleCustomer,
	RoleDeliveryAgent,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole matches case-insensitively; the server is not consistent about casing.
func ParseRole(value string) (Role, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validRoles {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}

// SelfRegistrable reports whether the role can be chosen at sign-up.
func (r Role) SelfRegistrable() bool {
	return r == RoleCustomer || r == RoleVendor || r == RoleDeliveryAgent
}
