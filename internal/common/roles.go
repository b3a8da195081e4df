package common

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles.
type Role string

const (
	RolePatient   Role = "patient"
	RoleTherapist Role = "therapist"
	RoleAdmin     Role = "admin"
)

// Roles lists every valid role.
var Roles = []Role{RolePatient, RoleTherapist, RoleAdmin}

// ParseRole converts s (case-insensitive) into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleTherapist, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
