package adminsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// Saved-query management for the SQL console. Queries are shared server-side
// snippets, not per-user; the backend stores name, statement and timestamps.
// Like the console itself these operations require an admin role, applied as
// a first gate before any network call.

func (s *Session) requireSQLConsole() error {
	actor := s.Identity()
	if actor == nil {
		return ErrNotAuthenticated
	}
	if !CanAccessRoute(actor, RouteSQL) {
		return &PolicyError{Reason: "the SQL console requires an admin role"}
	}
	return nil
}

// ListSavedQueries returns every saved query, most recently updated first.
func (s *Session) ListSavedQueries(ctx context.Context) ([]SavedQuery, error) {
	if err := s.requireSQLConsole(); err != nil {
		return nil, err
	}

	var queries []SavedQuery
	if err := s.do(ctx, http.MethodGet, "/query/", nil, &queries, http.StatusOK); err != nil {
		return nil, err
	}
	return queries, nil
}

// SavedQuery fetches one saved query by id.
func (s *Session) SavedQuery(ctx context.Context, id int64) (*SavedQuery, error) {
	if err := s.requireSQLConsole(); err != nil {
		return nil, err
	}

	var query SavedQuery
	path := "/query/" + strconv.FormatInt(id, 10)
	if err := s.do(ctx, http.MethodGet, path, nil, &query, http.StatusOK); err != nil {
		return nil, err
	}
	return &query, nil
}

// CreateSavedQuery stores a new saved query and returns its id.
func (s *Session) CreateSavedQuery(ctx context.Context, req SavedQueryRequest) (int64, error) {
	if err := s.requireSQLConsole(); err != nil {
		return 0, err
	}
	if req.Name == "" || req.SQL == "" {
		return 0, fmt.Errorf("a saved query needs a name and a statement")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	var resp savedQueryMutationResponse
	if err := s.do(ctx, http.MethodPost, "/query/", body, &resp, http.StatusOK); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// UpdateSavedQuery replaces an existing saved query's name and statement.
func (s *Session) UpdateSavedQuery(ctx context.Context, id int64, req SavedQueryRequest) error {
	if err := s.requireSQLConsole(); err != nil {
		return err
	}
	if req.Name == "" || req.SQL == "" {
		return fmt.Errorf("a saved query needs a name and a statement")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	path := "/query/" + strconv.FormatInt(id, 10)
	return s.do(ctx, http.MethodPut, path, body, nil, http.StatusOK)
}

// DeleteSavedQuery removes a saved query.
func (s *Session) DeleteSavedQuery(ctx context.Context, id int64) error {
	if err := s.requireSQLConsole(); err != nil {
		return err
	}

	path := "/query/" + strconv.FormatInt(id, 10)
	return s.do(ctx, http.MethodDelete, path, nil, nil, http.StatusOK)
}
