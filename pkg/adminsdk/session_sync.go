package adminsdk

import (
	"context"
	"net/http"
)

// Synchronization triggers. These proxy to the backend's long-running sync
// jobs against the DHIS2 instances; any authenticated identity may run them.
// The request context should allow for the job's full duration.

// SyncOrgUnits pulls organisation units from the source instance.
func (s *Session) SyncOrgUnits(ctx context.Context) (*SyncResult, error) {
	return s.runSync(ctx, "/sync/orgunits")
}

// SyncDataElements pulls data elements from the source instance.
func (s *Session) SyncDataElements(ctx context.Context) (*SyncResult, error) {
	return s.runSync(ctx, "/sync/dataElements")
}

// SyncTrackedEntities pulls tracked entity instances together with their
// enrollments, events and attributes.
func (s *Session) SyncTrackedEntities(ctx context.Context) (*SyncResult, error) {
	return s.runSync(ctx, "/sync/teis_enrollments_events_attributes")
}

func (s *Session) runSync(ctx context.Context, path string) (*SyncResult, error) {
	if s.Identity() == nil {
		return nil, ErrNotAuthenticated
	}

	var result SyncResult
	if err := s.do(ctx, http.MethodPost, path, nil, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}
