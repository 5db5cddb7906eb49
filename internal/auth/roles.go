package auth

import "strings"

// Role is the access level carried by every account and credential.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// ParseRole normalizes a raw role string. Unknown values return false.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.TrimSpace(strings.ToLower(raw))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleTeacher:
		return RoleTeacher, true
	case RoleStudent:
		return RoleStudent, true
	}
	return "", false
}

// RoleSet is the set of roles permitted to invoke an operation class.
type RoleSet []Role

// Contains reports membership of role in the set.
func (s RoleSet) Contains(role Role) bool {
	for _, r := range s {
		if r == role {
			return true
		}
	}
	return false
}

func (s RoleSet) String() string {
	parts := make([]string, len(s))
	for i, r := range s {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

// Fixed policy sets used by the endpoint classes. The gate itself works
// with any RoleSet value; these are the five combinations the API uses.
var (
	AdminOnly      = RoleSet{RoleAdmin}
	TeacherOnly    = RoleSet{RoleTeacher}
	StudentOnly    = RoleSet{RoleStudent}
	TeacherOrAdmin = RoleSet{RoleTeacher, RoleAdmin}
	AnyRole        = RoleSet{RoleStudent, RoleTeacher, RoleAdmin}
)
