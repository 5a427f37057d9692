package domain

import (
	"fmt"     // Error formatting
	"strings" // String normalization
)

// Role is the closed set of account roles
type Role string

const (
	RoleAdmin       Role = "ADMIN"       // Manages accounts and participant records
	RoleVolunteer   Role = "VOLUNTEER"   // Staff or volunteer account
	RoleParticipant Role = "PARTICIPANT" // Guardian of a participant record
)

// ParseRole converts a raw role string into a Role
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(raw))) // Roles are stored upper case
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}

// Valid reports whether the role is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleVolunteer, RoleParticipant:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether the role grants access to admin-only operations
func (r Role) IsAdmin() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleVolunteer, RoleParticipant:
		return false
	default:
		return false // Unknown roles never pass the admin gate
	}
}

// Editable reports whether accounts with this role may be assigned through the user edit flow
func (r Role) Editable() bool {
	switch r {
	case RoleVolunteer, RoleParticipant:
		return true
	case RoleAdmin:
		return false
	default:
		return false
	}
}
