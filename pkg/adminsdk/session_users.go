package adminsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// Account-management operations. Each one applies the authorization policy
// as a first gate before any network call; the backend is the authoritative
// second gate and its error messages are surfaced verbatim.

// Register creates a new account.
func (s *Session) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	actor := s.Identity()
	if !CanManageUsers(actor) {
		return nil, &PolicyError{Reason: "only admins can create users"}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var rr RegisterResponse
	if err := s.do(ctx, http.MethodPost, "/user/register", body, &rr, http.StatusCreated); err != nil {
		return nil, err
	}
	return &rr, nil
}

// ListUsers returns every account. The backend rejects non-admin callers
// with 403.
func (s *Session) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.do(ctx, http.MethodGet, "/user/all", nil, &users, http.StatusOK); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser changes target's profile, optionally setting a new password
// when req.Password is non-empty.
func (s *Session) UpdateUser(ctx context.Context, target User, req UpdateUserRequest) (*User, error) {
	actor := s.Identity()
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	if !CanEditUser(*actor, target) {
		return nil, &PolicyError{Reason: "you cannot edit this account"}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var updated User
	path := "/user/update/" + strconv.FormatInt(target.ID, 10)
	if err := s.do(ctx, http.MethodPut, path, body, &updated, http.StatusOK); err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateOwnPassword changes the authenticated user's own password, verifying
// the old one server-side.
func (s *Session) UpdateOwnPassword(ctx context.Context, oldPassword, newPassword string) error {
	actor := s.Identity()
	if actor == nil {
		return ErrNotAuthenticated
	}

	body, err := json.Marshal(map[string]string{
		"old_password": oldPassword,
		"new_password": newPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	path := "/user/update-password/" + strconv.FormatInt(actor.ID, 10)
	return s.do(ctx, http.MethodPut, path, body, nil, http.StatusOK)
}

// AdminResetPassword sets a new password on target without knowing the old
// one.
func (s *Session) AdminResetPassword(ctx context.Context, target User, newPassword string) error {
	actor := s.Identity()
	if actor == nil {
		return ErrNotAuthenticated
	}
	if !CanResetPassword(*actor, target) {
		return &PolicyError{Reason: "you cannot reset this account's password"}
	}

	body, err := json.Marshal(map[string]string{"new_password": newPassword})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	path := "/user/admin-update-password/" + strconv.FormatInt(target.ID, 10)
	return s.do(ctx, http.MethodPut, path, body, nil, http.StatusOK)
}

// DeleteUser removes target's account. The bootstrap "admin" account is
// rejected here, before any network call.
func (s *Session) DeleteUser(ctx context.Context, target User) error {
	actor := s.Identity()
	if actor == nil {
		return ErrNotAuthenticated
	}
	if target.Username == bootstrapUsername {
		return &PolicyError{Reason: "the admin account cannot be deleted"}
	}
	if !CanDeleteUser(*actor, target) {
		return &PolicyError{Reason: "you cannot delete this account"}
	}

	path := "/user/delete/" + strconv.FormatInt(target.ID, 10)
	return s.do(ctx, http.MethodDelete, path, nil, nil, http.StatusOK)
}
