package wfm

import (
	"context"
	"fmt"

	"github.com/hcmsync/hcm-sync/internal/connector/http"
)

// API paths.
const (
	tokenPath              = "/authentication/access_token"
	reportsPath            = "/v1/platform/reports"
	symbolicPeriodPath     = "/v1/commons/symbolicperiod"
	symbolicPeriodReadPath = "/v1/commons/symbolicperiod/read"
	hyperfindPath          = "/v1/commons/hyperfind"
	executionsPath         = "/v1/platform/report_executions"
)

// authChain is the platform authentication chain for service accounts.
const authChain = "OAuthLdapService"

// WFM is the time-and-attendance platform connector.
type WFM struct {
	Client *http.Client
	config *Config
}

// New creates a WFM connector using the password grant with refresh rotation.
func New(config *Config) (*WFM, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	tokens := http.NewPasswordGrantSource(http.PasswordGrantConfig{
		TokenURL:     config.BaseURL + tokenPath,
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Username:     config.Username,
		Password:     config.Password,
		AuthChain:    authChain,
		Headers:      map[string]string{"appkey": config.AppKey},
	})

	clientConfig := http.DefaultClientConfig()
	clientConfig.BaseURL = config.BaseURL
	clientConfig.Tokens = tokens
	clientConfig.DecodeError = decodeError
	clientConfig.Headers["appkey"] = config.AppKey
	clientConfig.Headers["Accept"] = "application/json"

	return &WFM{
		Client: http.NewClient(clientConfig),
		config: config,
	}, nil
}

// NewWithClient builds a connector around an existing client. Used by tests
// to point the connector at a stub server.
func NewWithClient(client *http.Client) *WFM {
	return &WFM{Client: client}
}

// Authenticate establishes the session up front.
func (w *WFM) Authenticate(ctx context.Context) error {
	return w.Client.Authenticate(ctx)
}

// =============================================================================
// CATALOGS
// =============================================================================

// FetchCatalogs loads the three catalogs every run resolves names against.
func (w *WFM) FetchCatalogs(ctx context.Context) (*Catalogs, error) {
	var reports []Report
	resp, err := w.Client.Get(ctx, reportsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch reports catalog: %w", err)
	}
	if err := resp.JSON(&reports); err != nil {
		return nil, fmt.Errorf("decode reports catalog: %w", err)
	}

	var periods []SymbolicPeriod
	resp, err = w.Client.Get(ctx, symbolicPeriodPath, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch symbolic periods: %w", err)
	}
	if err := resp.JSON(&periods); err != nil {
		return nil, fmt.Errorf("decode symbolic periods: %w", err)
	}

	var hyperfinds struct {
		HyperfindQueries []HyperfindQuery `json:"hyperfindQueries"`
	}
	resp, err = w.Client.Get(ctx, hyperfindPath, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch hyperfind queries: %w", err)
	}
	if err := resp.JSON(&hyperfinds); err != nil {
		return nil, fmt.Errorf("decode hyperfind queries: %w", err)
	}

	return &Catalogs{
		Reports:    reports,
		Periods:    periods,
		Hyperfinds: hyperfinds.HyperfindQueries,
	}, nil
}

// ResolveDates asks the platform for the concrete date range a symbolic
// period covers for the current user.
func (w *WFM) ResolveDates(ctx context.Context, symbolicID string) (DateRange, error) {
	payload := map[string]any{
		"where": map[string]any{
			"currentUser":      true,
			"symbolicPeriodId": symbolicID,
		},
	}

	resp, err := w.Client.Post(ctx, symbolicPeriodReadPath, payload)
	if err != nil {
		return DateRange{}, fmt.Errorf("resolve dates for %s: %w", symbolicID, err)
	}

	var dates DateRange
	if err := resp.JSON(&dates); err != nil {
		return DateRange{}, fmt.Errorf("decode date range: %w", err)
	}
	return dates, nil
}

// =============================================================================
// REPORT EXECUTIONS
// =============================================================================

// ExecuteReport submits one report execution and returns the server-assigned
// execution id. The resolved period and hyperfind descriptors are passed
// through verbatim; the output format is fixed to CSV.
func (w *WFM) ExecuteReport(ctx context.Context, report Report, period SymbolicPeriod, hyperfind HyperfindQuery) (int64, error) {
	payload := map[string]any{
		"parameters": []map[string]any{
			{"name": "DateRange", "value": map[string]any{"symbolicPeriod": period}},
			{"name": "DataSource", "value": map[string]any{"hyperfind": hyperfind}},
			{"name": "Output Format", "value": map[string]any{"key": "csv", "title": "CSV"}},
		},
	}

	path := reportsPath + "/" + report.Name() + "/execute"
	resp, err := w.Client.Post(ctx, path, payload)
	if err != nil {
		return 0, fmt.Errorf("execute report %s: %w", report.Name(), err)
	}

	var result struct {
		ID int64 `json:"id"`
	}
	if err := resp.JSON(&result); err != nil {
		return 0, fmt.Errorf("decode execute response: %w", err)
	}
	return result.ID, nil
}

// ListExecutions fetches the shared status endpoint and returns the status
// qualifier per execution id.
func (w *WFM) ListExecutions(ctx context.Context) (map[int64]string, error) {
	resp, err := w.Client.Get(ctx, executionsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("list report executions: %w", err)
	}

	var executions []struct {
		ID     int64 `json:"id"`
		Status struct {
			Qualifier string `json:"qualifier"`
		} `json:"status"`
	}
	if err := resp.JSON(&executions); err != nil {
		return nil, fmt.Errorf("decode report executions: %w", err)
	}

	statuses := make(map[int64]string, len(executions))
	for _, ex := range executions {
		statuses[ex.ID] = ex.Status.Qualifier
	}
	return statuses, nil
}

// DownloadExecution fetches a completed execution's result body.
func (w *WFM) DownloadExecution(ctx context.Context, id int64) ([]byte, error) {
	resp, err := w.Client.Get(ctx, fmt.Sprintf("%s/%d/file", executionsPath, id), nil)
	if err != nil {
		return nil, fmt.Errorf("download execution %d: %w", id, err)
	}
	return resp.Body, nil
}
