package adminsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Indicator merge: computes indicator values over a period for a set of
// organisation units and pushes them to the target DHIS2 instance. Any
// authenticated identity may run it, matching the merge route's gate.

// FetchOrgUnits lists the organisation units available to the merge. An empty
// list means the units have not been synchronized yet.
func (s *Session) FetchOrgUnits(ctx context.Context) ([]OrgUnit, error) {
	if s.Identity() == nil {
		return nil, ErrNotAuthenticated
	}

	var units []OrgUnit
	if err := s.do(ctx, http.MethodGet, "/fetch/orgunits", nil, &units, http.StatusOK); err != nil {
		return nil, err
	}
	return units, nil
}

// MergeIndicators runs the indicator merge for the given period and
// organisation units. Long-running; the context should allow for the job's
// full duration.
func (s *Session) MergeIndicators(ctx context.Context, req MergeRequest) (*MergeResult, error) {
	if s.Identity() == nil {
		return nil, ErrNotAuthenticated
	}
	if req.StartDate == "" || req.EndDate == "" {
		return nil, fmt.Errorf("start and end dates are required")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var result MergeResult
	if err := s.do(ctx, http.MethodPost, "/arrimate-indicators", body, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}
