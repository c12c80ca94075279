package wfm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hcmsync/hcm-sync/internal/connector/http"
)

// ResolutionError reports a configured name with no exact match in the
// corresponding remote catalog. It is fatal for the run.
type ResolutionError struct {
	// Kind is the catalog that was searched: "report", "symbolic period"
	// or "hyperfind".
	Kind string

	// Name is the configured value that did not match.
	Name string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("no %s named %q in the remote catalog", e.Kind, e.Name)
}

// PollTimeoutError reports executions still pending when the polling deadline
// expired.
type PollTimeoutError struct {
	Pending []string
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("polling deadline expired with executions still pending: %s",
		strings.Join(e.Pending, ", "))
}

// ExecutionFailedError reports executions the platform marked Failed.
type ExecutionFailedError struct {
	Reports []string
}

func (e *ExecutionFailedError) Error() string {
	return fmt.Sprintf("report executions failed: %s", strings.Join(e.Reports, ", "))
}

// decodeError shapes the platform's {errorCode, message} bodies.
func decodeError(statusCode int, body []byte) *http.APIError {
	var parsed struct {
		ErrorCode string `json:"errorCode"`
		Message   string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.ErrorCode == "" {
		return nil
	}
	return &http.APIError{
		StatusCode: statusCode,
		Code:       parsed.ErrorCode,
		Message:    parsed.Message,
		Body:       string(body),
	}
}
