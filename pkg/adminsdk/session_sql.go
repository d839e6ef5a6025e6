package adminsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ExecuteSQL runs an ad-hoc statement through the SQL console endpoint. The
// statement is classified against the caller's role before anything is sent;
// the backend applies the same rules authoritatively.
func (s *Session) ExecuteSQL(ctx context.Context, req SQLRequest) (*SQLResult, error) {
	actor := s.Identity()
	if actor == nil {
		return nil, ErrNotAuthenticated
	}

	if verdict := CanExecuteStatement(actor, req.SQL); !verdict.Allowed {
		return nil, &PolicyError{Reason: verdict.Reason}
	}

	req.UserID = actor.ID
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var result SQLResult
	if err := s.do(ctx, http.MethodPost, "/sql/execute", body, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

// Schema fetches the table and column catalogue for the SQL console's
// schema browser.
func (s *Session) Schema(ctx context.Context) (*SchemaInfo, error) {
	if s.Identity() == nil {
		return nil, ErrNotAuthenticated
	}

	var info SchemaInfo
	if err := s.do(ctx, http.MethodGet, "/schema/schema_info", nil, &info, http.StatusOK); err != nil {
		return nil, err
	}
	return &info, nil
}
