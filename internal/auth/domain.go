package auth

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Role is the coarse permission grouping assigned to every account.
type Role string

// Known roles. The zero value is not a valid role; unknown roles always
// resolve to the lowest hierarchy level.
const (
	RoleStudent    Role = "Student"
	RoleFaculty    Role = "Faculty"
	RoleAdmin      Role = "Admin"
	RoleParent     Role = "Parent"
	RoleManagement Role = "Management"
)

// Status describes the lifecycle state of an account. Only Active accounts
// pass authorization checks.
type Status string

// Known account statuses.
const (
	StatusActive    Status = "Active"
	StatusInactive  Status = "Inactive"
	StatusSuspended Status = "Suspended"
	StatusGraduated Status = "Graduated"
)

var titleCaser = cases.Title(language.English)

// ParseRole normalizes free-form input ("faculty", "FACULTY") into a known
// Role. The second return is false for anything outside the catalog.
func ParseRole(s string) (Role, bool) {
	switch Role(titleCaser.String(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent, true
	case RoleFaculty:
		return RoleFaculty, true
	case RoleAdmin:
		return RoleAdmin, true
	case RoleParent:
		return RoleParent, true
	case RoleManagement:
		return RoleManagement, true
	}
	return "", false
}

// ParseStatus normalizes free-form input into a known Status.
func ParseStatus(s string) (Status, bool) {
	switch Status(titleCaser.String(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, true
	case StatusInactive:
		return StatusInactive, true
	case StatusSuspended:
		return StatusSuspended, true
	case StatusGraduated:
		return StatusGraduated, true
	}
	return "", false
}

// Principal is the authenticated identity for a single request. It is built
// once by the Resolver from persisted user data and never mutated; downstream
// code must not re-derive identity from raw tokens.
type Principal struct {
	ID         int64
	Email      string
	Name       string
	Role       Role
	Status     Status
	Department string
}

// IsActive reports whether the account may pass authorization checks.
func (p Principal) IsActive() bool {
	return p.Status == StatusActive
}
