package models

import "strings"

type Role string

const (
	RoleStudent Role = "STUDENT"
	RolePoster  Role = "POSTER"
	RoleAdmin   Role = "ADMIN"
)

// ParseRole normalizes a role name. Unknown names map to RoleStudent.
func ParseRole(s string) Role {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RolePoster:
		return RolePoster
	default:
		return RoleStudent
	}
}

// Caller is a resolved identity performing a ledger action.
type Caller struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
