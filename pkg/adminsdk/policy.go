package adminsdk

import (
	"net/url"

	"github.com/hisptogo/arrimage-console/pkg/sqlguard"
)

// Guarded console routes. Route gating here is the first gate only; the
// backend independently rejects anything the role does not permit.
const (
	RouteLogin = "/login"
	RouteSync  = "/sync"
	RouteMerge = "/arrimate"
	RouteSQL   = "/sql"
	RouteUsers = "/users"
)

// bootstrapUsername is the undeletable sentinel account. This is a
// named-identity rule, not a role rule: it protects the bootstrap account
// even from superadmins.
const bootstrapUsername = "admin"

// CanAccessRoute reports whether the identity may enter the given route.
// A nil identity is unauthenticated and may only reach the login route.
func CanAccessRoute(identity *Identity, route string) bool {
	if route == RouteLogin {
		return true
	}
	if identity == nil {
		return false
	}
	switch route {
	case RouteSync, RouteMerge:
		return true
	case RouteSQL, RouteUsers:
		return identity.IsAdmin()
	default:
		return false
	}
}

// LoginRedirect builds the login route carrying the originally requested
// path, so a successful login can return the user there.
func LoginRedirect(requested string) string {
	if requested == "" || requested == RouteLogin {
		return RouteLogin
	}
	return RouteLogin + "?next=" + url.QueryEscape(requested)
}

// CanManageUsers reports whether the identity may list and administer
// accounts at all.
func CanManageUsers(identity *Identity) bool {
	return identity != nil && identity.IsAdmin()
}

// CanEditUser reports whether actor may change target's profile. Admins
// manage "user" and "admin" accounts; superadmin accounts are off limits to
// profile edits for everyone, superadmins included.
func CanEditUser(actor Identity, target User) bool {
	return actor.IsAdmin() && target.Role != RoleSuperAdmin
}

// CanDeleteUser is CanEditUser plus the bootstrap-account rule.
func CanDeleteUser(actor Identity, target User) bool {
	if target.Username == bootstrapUsername {
		return false
	}
	return CanEditUser(actor, target)
}

// CanResetPassword reports whether actor may set a new password for target.
// Only a superadmin may reset another superadmin's password, and nobody
// resets the bootstrap account's password but the account itself.
func CanResetPassword(actor Identity, target User) bool {
	if target.Role == RoleSuperAdmin {
		return actor.IsSuperAdmin() && target.Username != bootstrapUsername
	}
	return actor.IsAdmin()
}

// CanExecuteStatement classifies an ad-hoc SQL statement for the identity's
// capability tier.
func CanExecuteStatement(identity *Identity, sql string) sqlguard.Verdict {
	if identity == nil {
		return sqlguard.Verdict{Allowed: false, Reason: "not authenticated"}
	}
	return sqlguard.Check(sql, identity.IsAdmin(), identity.IsSuperAdmin())
}
