package hcm

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// =============================================================================
// EXPORT ARTIFACT
// The worker export is persisted as one gzip-compressed JSON array so the
// reconciliation run can work from the same snapshot the extract produced.
// =============================================================================

// WriteExport writes raw worker documents as gzip JSON, creating parent
// directories as needed.
func WriteExport(path string, records []map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	if err := json.NewEncoder(zw).Encode(records); err != nil {
		zw.Close()
		return fmt.Errorf("encode export: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}
	return f.Close()
}

// ReadExport loads a gzip JSON worker export into typed records.
func ReadExport(path string) ([]*Worker, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export file: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer zr.Close()

	var workers []*Worker
	if err := json.NewDecoder(zr).Decode(&workers); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	return workers, nil
}
