package wfm

import (
	"context"
	"log"
	"strings"
	"time"
)

// Polling defaults.
const (
	DefaultPollInterval = 8 * time.Second
	DefaultPollDeadline = 30 * time.Minute
)

// CompleteFunc receives each completed execution's result body exactly once.
type CompleteFunc func(ctx context.Context, exec *Execution, body []byte) error

// Orchestrator drives configured reports through the execution lifecycle:
// resolve names against catalogs, submit every execution, then poll the
// shared status endpoint until none remain pending.
type Orchestrator struct {
	wfm *WFM

	// PollInterval is the delay between status sweeps.
	PollInterval time.Duration

	// PollDeadline bounds the whole polling phase; a stuck remote
	// execution surfaces a PollTimeoutError instead of hanging the run.
	PollDeadline time.Duration
}

// NewOrchestrator creates an orchestrator with default polling settings.
func NewOrchestrator(w *WFM) *Orchestrator {
	return &Orchestrator{
		wfm:          w,
		PollInterval: DefaultPollInterval,
		PollDeadline: DefaultPollDeadline,
	}
}

// Submit resolves and submits every configured report before any polling
// begins. The first unresolvable name aborts the run.
func (o *Orchestrator) Submit(ctx context.Context, catalogs *Catalogs, requests []ReportRequest) ([]*Execution, error) {
	executions := make([]*Execution, 0, len(requests))
	for _, req := range requests {
		report, err := catalogs.Report(req.Name)
		if err != nil {
			return nil, err
		}
		period, err := catalogs.Period(req.SymbolicID)
		if err != nil {
			return nil, err
		}
		hyperfind, err := catalogs.Hyperfind(req.Hyperfind)
		if err != nil {
			return nil, err
		}

		dates, err := o.wfm.ResolveDates(ctx, req.SymbolicID)
		if err != nil {
			return nil, err
		}

		id, err := o.wfm.ExecuteReport(ctx, report, period, hyperfind)
		if err != nil {
			return nil, err
		}

		executions = append(executions, &Execution{
			ID:         id,
			Report:     report.Name(),
			Hyperfind:  req.Hyperfind,
			SymbolicID: req.SymbolicID,
			Range:      dates,
			Status:     StatusSubmitted,
		})
		log.Printf("wfm: submitted %s - %s - %s (execution %d)", report.Name(), req.Hyperfind, req.SymbolicID, id)
	}
	return executions, nil
}

// Poll sweeps the shared status endpoint until every execution reaches a
// terminal state, invoking onComplete for each completed one. The pending
// set is rebuilt every sweep; entries are never removed mid-iteration.
func (o *Orchestrator) Poll(ctx context.Context, executions []*Execution, onComplete CompleteFunc) error {
	interval := o.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	deadline := time.Now().Add(o.PollDeadline)
	if o.PollDeadline <= 0 {
		deadline = time.Now().Add(DefaultPollDeadline)
	}

	pending := make([]*Execution, len(executions))
	copy(pending, executions)

	var failed []string
	for len(pending) > 0 {
		if time.Now().After(deadline) {
			names := make([]string, len(pending))
			for i, ex := range pending {
				names[i] = ex.Report
			}
			return &PollTimeoutError{Pending: names}
		}

		statuses, err := o.wfm.ListExecutions(ctx)
		if err != nil {
			return err
		}

		next := pending[:0:0]
		for _, ex := range pending {
			status, listed := statuses[ex.ID]
			if !listed {
				// Not on the status endpoint yet; keep waiting.
				next = append(next, ex)
				continue
			}
			ex.Status = status
			log.Printf("wfm: %s - %s - %s:\t%s", ex.Report, ex.Hyperfind, ex.SymbolicID, status)

			switch status {
			case StatusCompleted:
				body, err := o.wfm.DownloadExecution(ctx, ex.ID)
				if err != nil {
					return err
				}
				if err := onComplete(ctx, ex, body); err != nil {
					return err
				}
			case StatusFailed:
				failed = append(failed, ex.Report)
			default:
				next = append(next, ex)
			}
		}
		pending = next

		if len(pending) == 0 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}

	if len(failed) > 0 {
		return &ExecutionFailedError{Reports: failed}
	}
	return nil
}

// ArtifactName derives the output file name from the report, the hyperfind
// with whitespace stripped, and the resolved range start date.
func (e *Execution) ArtifactName() string {
	return e.Report + "-" + strings.ReplaceAll(e.Hyperfind, " ", "") + "-" + e.Range.Begin + ".csv"
}
