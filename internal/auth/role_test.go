package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionsFor(t *testing.T) {
	assert.Empty(t, PermissionsFor(RoleUser))
	assert.Len(t, PermissionsFor(RoleModerator), 4)
	assert.Len(t, PermissionsFor(RoleAdmin), 8)

	// Admin is a strict superset of moderator.
	for _, p := range PermissionsFor(RoleModerator) {
		assert.True(t, HasPermission(RoleAdmin, p), "admin missing %s", p)
	}
	assert.False(t, HasPermission(RoleModerator, PermAdminCreate))
	assert.False(t, HasPermission(RoleUser, PermModeratorRead))
	assert.False(t, HasPermission(Role("WIZARD"), PermModeratorRead))
}

func TestPermissionsForReturnsCopy(t *testing.T) {
	perms := PermissionsFor(RoleModerator)
	perms[0] = Permission("tampered")
	assert.True(t, HasPermission(RoleModerator, PermModeratorCreate))
}

func TestRank(t *testing.T) {
	assert.Equal(t, 0, Rank(RoleUser))
	assert.Equal(t, 1, Rank(RoleModerator))
	assert.Equal(t, 2, Rank(RoleAdmin))
	assert.Equal(t, -1, Rank(Role("WIZARD")), "unknown roles never outrank anything")

	assert.Greater(t, Rank(RoleAdmin), Rank(RoleModerator))
	assert.Greater(t, Rank(RoleModerator), Rank(RoleUser))
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"ADMIN", RoleAdmin, true},
		{"admin", RoleAdmin, true},
		{"  Moderator ", RoleModerator, true},
		{"user", RoleUser, true},
		{"WIZARD", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseRole(tt.in)
		assert.Equal(t, tt.ok, ok, "ParseRole(%q)", tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got)
		}
	}
}
