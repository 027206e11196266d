package user

import "errors"

var ErrInvalidRole = errors.New("invalid role")

type Role string

const (
	// RoleClient acts for a client organisation (buy side).
	RoleClient Role = "client"
	// RoleProvider acts for a provider organisation (sell side).
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleProvider, RoleAdmin:
		return true
	default:
		return false
	}
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
