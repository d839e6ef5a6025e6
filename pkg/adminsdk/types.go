package adminsdk

// Roles known to the backend. Capability checks must derive from these
// values only; they are never cached as separate flags.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// Identity is the authenticated user record as returned by the backend.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the identity holds the admin or superadmin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin || i.Role == RoleSuperAdmin
}

// IsSuperAdmin reports whether the identity holds the superadmin role.
func (i Identity) IsSuperAdmin() bool {
	return i.Role == RoleSuperAdmin
}

// User is an account record from the user-management endpoints. It carries
// the same fields as Identity; the alias keeps call sites honest about
// whether they are talking about the actor or a managed target.
type User = Identity

// TokenPair holds the two session credentials. Both are opaque to the client.
// Invariant: they are persisted and cleared together, never individually.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// loginResponse is the POST /auth/login success body.
type loginResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         Identity `json:"user"`
}

// refreshResponse is the POST /auth/refresh success body. The backend may or
// may not rotate the refresh token.
type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// meResponse is the GET /auth/me success body.
type meResponse struct {
	User Identity `json:"user"`
}

// errorResponse is the backend's error envelope. Every failing endpoint puts
// a human-readable message under "error".
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// RegisterResponse is the POST /user/register success body.
type RegisterResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

// UpdateUserRequest changes an account's profile. Password is only applied
// when non-empty.
type UpdateUserRequest struct {
	Fullname string `json:"fullname"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
}

// SQLRequest is an ad-hoc statement for the SQL console.
type SQLRequest struct {
	SQL     string `json:"sql"`
	UserID  int64  `json:"user_id"`
	MaxRows int    `json:"max_rows,omitempty"`
	Explain bool   `json:"explain,omitempty"`
}

// SQLResult is the POST /sql/execute success body.
type SQLResult struct {
	Columns   []string         `json:"columns,omitempty"`
	Rows      [][]any          `json:"rows,omitempty"`
	RowCount  int              `json:"row_count"`
	Truncated bool             `json:"truncated,omitempty"`
	DurationS float64          `json:"duration_s,omitempty"`
	Plan      []map[string]any `json:"plan,omitempty"`
}

// SavedQuery is a stored SQL console query. Timestamps are carried verbatim
// as the backend formats them; they are display-only.
type SavedQuery struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SQL       string `json:"sql"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// SavedQueryRequest creates or updates a saved query.
type SavedQueryRequest struct {
	Name string `json:"name"`
	SQL  string `json:"sql"`
}

// savedQueryMutationResponse is the body of a successful saved-query create
// or update.
type savedQueryMutationResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// OrgUnit is one organisation unit available for the indicator merge.
type OrgUnit struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MergeRequest selects the period and organisation units for an indicator
// merge run. Dates are ISO 8601 days (YYYY-MM-DD).
type MergeRequest struct {
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	OrgUnits  []string `json:"orgunits"`
}

// MergeResult summarises an indicator merge run. Success and Failed are the
// backend's human-readable tallies; Status distinguishes a clean run (200)
// from a partial one (201).
type MergeResult struct {
	Status  int    `json:"status"`
	Success string `json:"success"`
	Failed  string `json:"error"`
}

// ColumnInfo describes one column in the schema introspection payload.
type ColumnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// TableInfo describes one table in the schema introspection payload.
type TableInfo struct {
	Schema  string       `json:"schema"`
	Name    string       `json:"name"`
	Columns []ColumnInfo `json:"columns"`
}

// SchemaInfo is the GET /schema/schema_info success body.
type SchemaInfo struct {
	Tables []TableInfo `json:"tables"`
}

// SyncResult is the common response of the synchronization trigger endpoints.
type SyncResult struct {
	Message  string `json:"message,omitempty"`
	Imported int    `json:"imported,omitempty"`
	Updated  int    `json:"updated,omitempty"`
	Ignored  int    `json:"ignored,omitempty"`
}
