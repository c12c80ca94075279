package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/hcmsync/hcm-sync/internal/blob"
	"github.com/hcmsync/hcm-sync/internal/connector/wfm"
)

// ReportsExtract runs every configured report to completion and lands each
// CSV artifact locally and in object storage.
type ReportsExtract struct {
	WFM        *wfm.WFM
	Requests   []wfm.ReportRequest
	Sink       blob.Sink
	DataDir    string
	BlobPrefix string

	// PollInterval and PollDeadline override the orchestrator defaults
	// when non-zero.
	PollInterval time.Duration
	PollDeadline time.Duration
}

// Run executes one extract.
func (p *ReportsExtract) Run(ctx context.Context) error {
	runID := uuid.NewString()
	log.Printf("pipeline: reports extract run %s (%d reports)", runID, len(p.Requests))

	catalogs, err := p.WFM.FetchCatalogs(ctx)
	if err != nil {
		return err
	}

	orchestrator := wfm.NewOrchestrator(p.WFM)
	if p.PollInterval > 0 {
		orchestrator.PollInterval = p.PollInterval
	}
	if p.PollDeadline > 0 {
		orchestrator.PollDeadline = p.PollDeadline
	}

	executions, err := orchestrator.Submit(ctx, catalogs, p.Requests)
	if err != nil {
		return err
	}

	if err := p.Sink.EnsureBucket(ctx); err != nil {
		return err
	}

	return orchestrator.Poll(ctx, executions, func(ctx context.Context, ex *wfm.Execution, body []byte) error {
		artifact := ex.ArtifactName()

		localPath := filepath.Join(p.DataDir, ex.Report, artifact)
		if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
		if err := os.WriteFile(localPath, body, 0o644); err != nil {
			return fmt.Errorf("write report artifact: %w", err)
		}
		log.Printf("pipeline: wrote %s", localPath)

		url, err := p.Sink.Put(ctx, path.Join(p.BlobPrefix, ex.Report, artifact), body)
		if err != nil {
			return err
		}
		log.Printf("pipeline: uploaded %s", url)
		return nil
	})
}
