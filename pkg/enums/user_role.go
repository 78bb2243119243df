package enums

import "fmt"

// UserRole distinguishes the two sides of the marketplace. Immutable after signup.
type UserRole string

const (
	UserRolePractitioner UserRole = "practitioner"
	UserRoleSupplier     UserRole = "supplier"
)

var validUserRoles = []UserRole{
	UserRolePractitioner,
	UserRoleSupplier,
}

// String implements fmt.Stringer.
func (u UserRole) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserRole.
func (u UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
