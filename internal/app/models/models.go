package models

import "strings"

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent   RoleType = "STUDENT"
	RoleRecruiter RoleType = "RECRUITER"
)

// ParseRole normalises a role string, reporting whether it is known
func ParseRole(s string) (RoleType, bool) {
	switch RoleType(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent, true
	case RoleRecruiter:
		return RoleRecruiter, true
	default:
		return "", false
	}
}

// Principal is the authenticated caller as supplied by the auth layer
type Principal struct {
	UserID int64
	Role   RoleType
}
