package auth

import "strings"

// Permission is an atomic capability tag granted through a role. Route
// middleware checks permissions, never role names, so new roles can be
// added without touching route registrations.
type Permission string

const (
	PermModeratorCreate Permission = "moderator:create"
	PermModeratorRead   Permission = "moderator:read"
	PermModeratorUpdate Permission = "moderator:update"
	PermModeratorDelete Permission = "moderator:delete"
	PermAdminCreate     Permission = "admin:create"
	PermAdminRead       Permission = "admin:read"
	PermAdminUpdate     Permission = "admin:update"
	PermAdminDelete     Permission = "admin:delete"
)

// Role names as stored in users.role and embedded in token claims.
type Role string

const (
	RoleUser      Role = "USER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

// roleRanks totally orders roles by privilege. Rank comparisons decide
// whether an actor may change another user's role or account state.
var roleRanks = map[Role]int{
	RoleUser:      0,
	RoleModerator: 1,
	RoleAdmin:     2,
}

// rolePermissions is the static role → permission-set table. An admin
// holds every moderator permission plus the admin set; a plain user
// holds none.
var rolePermissions = map[Role][]Permission{
	RoleUser: {},
	RoleModerator: {
		PermModeratorCreate, PermModeratorRead, PermModeratorUpdate, PermModeratorDelete,
	},
	RoleAdmin: {
		PermModeratorCreate, PermModeratorRead, PermModeratorUpdate, PermModeratorDelete,
		PermAdminCreate, PermAdminRead, PermAdminUpdate, PermAdminDelete,
	},
}

// ParseRole normalizes a role name and reports whether it is one of the
// known variants.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := roleRanks[r]
	return r, ok
}

// Rank returns the privilege rank of a role, or -1 for unknown roles so
// that unknown input never outranks anything.
func Rank(r Role) int {
	if n, ok := roleRanks[r]; ok {
		return n
	}
	return -1
}

// PermissionsFor returns a copy of the permission set attached to a role.
func PermissionsFor(r Role) []Permission {
	perms := rolePermissions[r]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// HasPermission reports whether a role grants the given permission.
func HasPermission(r Role, p Permission) bool {
	for _, have := range rolePermissions[r] {
		if have == p {
			return true
		}
	}
	return false
}
