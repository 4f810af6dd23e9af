package user

import (
	"fmt"
)

// Role is the closed set of account roles. The zero value is not a valid
// role, so a User that was never assigned one fails every role gate.
type Role uint8

const (
	RoleUnknown Role = iota
	RoleOperations
	RoleClient
)

func (r Role) String() string {
	switch r {
	case RoleOperations:
		return "operations"
	case RoleClient:
		return "client"
	default:
		return "unknown"
	}
}

func (r Role) Valid() bool { return r == RoleOperations || r == RoleClient }

// In reports whether r is one of roles.
func (r Role) In(roles ...Role) bool {
	for _, allowed := range roles {
		if r.Valid() && r == allowed {
			return true
		}
	}
	return false
}

func ParseRole(s string) (Role, error) {
	switch s {
	case "operations":
		return RoleOperations, nil
	case "client":
		return RoleClient, nil
	default:
		return RoleUnknown, fmt.Errorf("unknown role %q", s)
	}
}
