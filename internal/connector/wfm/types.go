package wfm

// Config holds WFM connection configuration.
type Config struct {
	// BaseURL is the API root (e.g. https://tenant.wfm.example.com/api).
	BaseURL string `json:"baseUrl"`

	// AppKey is the application key header sent on every request,
	// including token requests.
	AppKey string `json:"appKey"`

	// ClientID and ClientSecret identify the API client.
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`

	// Username and Password are the service account credentials for the
	// password grant. They are sent once; refreshes use the refresh token.
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return &ValidationError{Field: "baseUrl", Message: "required"}
	}
	if c.AppKey == "" {
		return &ValidationError{Field: "appKey", Message: "required"}
	}
	if c.ClientID == "" {
		return &ValidationError{Field: "clientId", Message: "required"}
	}
	if c.Username == "" {
		return &ValidationError{Field: "username", Message: "required"}
	}
	if c.Password == "" {
		return &ValidationError{Field: "password", Message: "required"}
	}
	return nil
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// =============================================================================
// CATALOG TYPES
// Catalog entries are passed through verbatim inside execute payloads, so
// they stay loosely typed with accessors for the fields lookups need.
// =============================================================================

// Report is a report descriptor from the reports catalog.
type Report map[string]any

// Name returns the report's name.
func (r Report) Name() string { return stringAt(r, "name") }

// SymbolicPeriod is a relative date-range descriptor from the period catalog.
type SymbolicPeriod map[string]any

// SymbolicID returns the period's symbolic identifier.
func (p SymbolicPeriod) SymbolicID() string { return stringAt(p, "symbolicId") }

// HyperfindQuery is a saved worker filter from the hyperfind catalog.
type HyperfindQuery map[string]any

// Name returns the hyperfind's name.
func (q HyperfindQuery) Name() string { return stringAt(q, "name") }

func stringAt(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// =============================================================================
// EXECUTION TYPES
// =============================================================================

// ReportRequest is one configured report to extract.
type ReportRequest struct {
	Name       string `yaml:"name"`
	SymbolicID string `yaml:"symbolic_id"`
	Hyperfind  string `yaml:"hyperfind"`
}

// DateRange is the concrete date range a symbolic period resolves to for the
// current user.
type DateRange struct {
	Begin string `json:"begin"`
	End   string `json:"end"`
}

// Execution statuses reported by the platform.
const (
	StatusSubmitted = "Submitted"
	StatusRunning   = "Running"
	StatusCompleted = "Completed"
	StatusFailed    = "Failed"
)

// Execution tracks one submitted report execution through the polling loop.
// It lives only for the duration of one run.
type Execution struct {
	ID         int64
	Report     string
	Hyperfind  string
	SymbolicID string
	Range      DateRange
	Status     string
}
