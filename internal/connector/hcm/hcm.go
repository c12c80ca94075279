package hcm

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/hcmsync/hcm-sync/internal/connector/http"
)

// WorkersPath is the paged worker export endpoint.
const WorkersPath = "/hr/v2/workers"

// WorkerEventPath is the worker change-event endpoint root; the subresource
// and verb are appended dot-separated.
const WorkerEventPath = "/events/hr/v1/worker"

// workerSelectFields is the $select projection for the worker export.
var workerSelectFields = []string{
	"worker/associateOID",
	"worker/person/preferredName",
	"worker/person/legalName",
	"worker/person/customFieldGroup",
	"worker/businessCommunication/emails",
	"worker/customFieldGroup",
	"worker/workerDates",
}

// HCM is the payroll/HR platform connector.
type HCM struct {
	Client *http.Client
	config *Config
}

// New creates an HCM connector. The client certificate configured on the
// token source is presented on resource calls too.
func New(config *Config) (*HCM, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	tokens, err := http.NewClientCredentialsSource(
		config.TokenURL, config.ClientID, config.ClientSecret, config.CertFile, config.KeyFile)
	if err != nil {
		return nil, err
	}

	clientConfig := http.DefaultClientConfig()
	clientConfig.BaseURL = config.ServiceURL
	clientConfig.Tokens = tokens
	clientConfig.Transport = tokens.Transport()
	clientConfig.DecodeError = decodeError
	clientConfig.Headers["Accept"] = "application/json"

	return &HCM{
		Client: http.NewClient(clientConfig),
		config: config,
	}, nil
}

// NewWithClient builds a connector around an existing client. Used by tests
// to point the connector at a stub server.
func NewWithClient(client *http.Client) *HCM {
	return &HCM{Client: client}
}

// Authenticate establishes the session up front.
func (h *HCM) Authenticate(ctx context.Context) error {
	return h.Client.Authenticate(ctx)
}

// FetchWorkers pages through the worker export and returns the raw worker
// documents in server order.
func (h *HCM) FetchWorkers(ctx context.Context) ([]map[string]any, error) {
	query := url.Values{}
	query.Set("$select", strings.Join(workerSelectFields, ","))
	return http.FetchAll(ctx, h.Client, WorkersPath, query, "workers")
}

// DecodeWorkers converts raw worker documents into typed records.
func DecodeWorkers(records []map[string]any) ([]*Worker, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	var workers []*Worker
	if err := json.Unmarshal(data, &workers); err != nil {
		return nil, err
	}
	return workers, nil
}

// PostEvent submits one worker change event. The endpoint is addressed as
// {root}.{subresource}.change, e.g. worker.custom-field.string.change.
func (h *HCM) PostEvent(ctx context.Context, event Event) error {
	path := WorkerEventPath + "." + event.Subresource() + ".change"
	_, err := h.Client.Post(ctx, path, event.envelope())
	return err
}
