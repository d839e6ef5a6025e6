package adminsdk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanAccessRoute(t *testing.T) {
	t.Parallel()

	user := &Identity{ID: 2, Username: "bob", Role: RoleUser}
	admin := &Identity{ID: 3, Username: "carol", Role: RoleAdmin}
	superadmin := &Identity{ID: 4, Username: "dave", Role: RoleSuperAdmin}

	tests := []struct {
		name     string
		identity *Identity
		route    string
		want     bool
	}{
		{"anonymous login", nil, RouteLogin, true},
		{"anonymous sync", nil, RouteSync, false},
		{"anonymous users", nil, RouteUsers, false},
		{"user sync", user, RouteSync, true},
		{"user merge", user, RouteMerge, true},
		{"user sql", user, RouteSQL, false},
		{"user users", user, RouteUsers, false},
		{"admin sql", admin, RouteSQL, true},
		{"admin users", admin, RouteUsers, true},
		{"superadmin users", superadmin, RouteUsers, true},
		{"unknown route", admin, "/nope", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, CanAccessRoute(tt.identity, tt.route))
		})
	}
}

func TestLoginRedirect(t *testing.T) {
	t.Parallel()

	require.Equal(t, "/login", LoginRedirect(""))
	require.Equal(t, "/login", LoginRedirect("/login"))
	require.Equal(t, "/login?next=%2Fusers", LoginRedirect("/users"))
	require.Equal(t, "/login?next=%2Fsql%3Fq%3D1", LoginRedirect("/sql?q=1"))
}

func TestUserManagementPolicy(t *testing.T) {
	t.Parallel()

	user := Identity{ID: 2, Username: "bob", Role: RoleUser}
	admin := Identity{ID: 3, Username: "carol", Role: RoleAdmin}
	superadmin := Identity{ID: 4, Username: "dave", Role: RoleSuperAdmin}
	bootstrap := Identity{ID: 1, Username: "admin", Role: RoleSuperAdmin}

	t.Run("manage users", func(t *testing.T) {
		t.Parallel()
		require.False(t, CanManageUsers(nil))
		require.False(t, CanManageUsers(&user))
		require.True(t, CanManageUsers(&admin))
		require.True(t, CanManageUsers(&superadmin))
	})

	t.Run("edit", func(t *testing.T) {
		t.Parallel()
		require.False(t, CanEditUser(user, user))
		require.True(t, CanEditUser(admin, user))
		require.True(t, CanEditUser(admin, admin))
		require.False(t, CanEditUser(admin, superadmin), "admins never touch superadmin accounts")
		require.False(t, CanEditUser(superadmin, superadmin), "superadmin profiles are off limits to edits")
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		require.True(t, CanDeleteUser(admin, user))
		require.False(t, CanDeleteUser(admin, superadmin))
		require.False(t, CanDeleteUser(superadmin, bootstrap), "bootstrap account is undeletable even by superadmins")
	})

	t.Run("reset password", func(t *testing.T) {
		t.Parallel()
		require.False(t, CanResetPassword(user, user))
		require.True(t, CanResetPassword(admin, user))
		require.True(t, CanResetPassword(admin, admin))
		require.False(t, CanResetPassword(admin, superadmin), "only superadmins reset superadmin passwords")
		require.True(t, CanResetPassword(superadmin, superadmin))
		require.False(t, CanResetPassword(superadmin, bootstrap), "bootstrap password is self-service only")
	})
}

func TestCanExecuteStatement(t *testing.T) {
	t.Parallel()

	user := &Identity{ID: 2, Username: "bob", Role: RoleUser}
	superadmin := &Identity{ID: 4, Username: "dave", Role: RoleSuperAdmin}

	require.False(t, CanExecuteStatement(nil, "SELECT 1").Allowed)
	require.True(t, CanExecuteStatement(user, "SELECT * FROM org_units").Allowed)
	require.False(t, CanExecuteStatement(user, "DELETE FROM org_units").Allowed)
	require.True(t, CanExecuteStatement(superadmin, "DROP TABLE org_units").Allowed)
}
