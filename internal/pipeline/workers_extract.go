package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/hcmsync/hcm-sync/internal/blob"
	"github.com/hcmsync/hcm-sync/internal/connector/hcm"
)

// WorkerSource pages the remote worker export.
type WorkerSource interface {
	FetchWorkers(ctx context.Context) ([]map[string]any, error)
}

// exportName is the artifact name derived from the worker endpoint path.
var exportName = strings.ReplaceAll(hcm.WorkersPath, "/", "_")

// WorkersExtract snapshots the full worker export to a local gzip JSON
// artifact and uploads it to object storage.
type WorkersExtract struct {
	Source     WorkerSource
	Sink       blob.Sink
	DataDir    string
	BlobPrefix string
}

// Run executes one extract.
func (p *WorkersExtract) Run(ctx context.Context) error {
	runID := uuid.NewString()
	log.Printf("pipeline: workers extract run %s", runID)

	records, err := p.Source.FetchWorkers(ctx)
	if err != nil {
		return fmt.Errorf("fetch workers: %w", err)
	}
	log.Printf("pipeline: fetched %d worker records", len(records))

	artifact := exportName + ".json.gz"
	localPath := filepath.Join(p.DataDir, exportName, artifact)
	if err := hcm.WriteExport(localPath, records); err != nil {
		return err
	}
	log.Printf("pipeline: wrote %s", localPath)

	data, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("read export artifact: %w", err)
	}

	if err := p.Sink.EnsureBucket(ctx); err != nil {
		return err
	}
	url, err := p.Sink.Put(ctx, path.Join(p.BlobPrefix, exportName, artifact), data)
	if err != nil {
		return err
	}
	log.Printf("pipeline: uploaded %s", url)
	return nil
}

// ExportPath returns where the extract writes its local artifact.
func ExportPath(dataDir string) string {
	return filepath.Join(dataDir, exportName, exportName+".json.gz")
}
