// Package domain defines the authentication and authorization model: roles,
// principals, access tokens, the typed authentication failures, and the route
// table that decides which requests need a token.
package domain

import "strings"

// Role is an authority granted to a principal.
type Role string

const (
	// RoleUser is granted to every registered member.
	RoleUser Role = "USER"

	// RoleAdmin grants access to the management area and implies RoleUser.
	RoleAdmin Role = "ADMIN"
)

// impliedRoles lists, for each role, the roles it grants in addition to itself.
var impliedRoles = map[Role][]Role{
	RoleAdmin: {RoleUser},
}

// ParseRole converts a case-insensitive name into a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// Grants reports whether holding r satisfies a requirement for required.
func (r Role) Grants(required Role) bool {
	if r == required {
		return true
	}
	for _, implied := range impliedRoles[r] {
		if implied.Grants(required) {
			return true
		}
	}
	return false
}
