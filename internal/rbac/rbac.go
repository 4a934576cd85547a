// Package rbac maps dashboard roles to their permission sets. This is
// peripheral UI-gating policy, kept as a closed enum and a static table
// rather than a dynamic property bag.
package rbac

// Role is the closed set of dashboard roles.
type Role int

const (
	RoleUnknown Role = iota
	RoleAdmin
	RoleViewer
	RoleManager
)

// Permission is a single capability flag. Permissions combine into sets with
// bitwise OR.
type Permission uint16

const (
	PermCreateUsers Permission = 1 << iota
	PermUpdateUsers
	PermDeleteUsers
	PermViewUsers
	PermCreateGroups
	PermUpdateGroups
	PermDeleteGroups
	PermViewGroups
)

// rolePermissions mirrors the dashboard's role table: admin and viewer are
// read-only, manager can update users and create/update groups. Nobody can
// create or delete users, or delete groups.
var rolePermissions = map[Role]Permission{
	RoleAdmin:   PermViewUsers | PermViewGroups,
	RoleViewer:  PermViewUsers | PermViewGroups,
	RoleManager: PermUpdateUsers | PermViewUsers | PermCreateGroups | PermUpdateGroups | PermViewGroups,
}

// Permissions returns the role's permission set. Unknown roles get no
// permissions.
func (r Role) Permissions() Permission {
	return rolePermissions[r]
}

// Has reports whether the set contains every permission in want.
func (p Permission) Has(want Permission) bool {
	return p&want == want
}

// String returns the role's wire name.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleViewer:
		return "viewer"
	case RoleManager:
		return "manager"
	default:
		return "unknown"
	}
}

// ParseRole converts a wire role string to a Role. The second return value is
// false for strings outside the closed set.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "admin":
		return RoleAdmin, true
	case "viewer":
		return RoleViewer, true
	case "manager":
		return RoleManager, true
	default:
		return RoleUnknown, false
	}
}
