// Package canonical loads the system-of-record worker roster the sync run
// reconciles against, either from a JSON export file or straight from the
// warehouse.
package canonical

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Record is one canonical worker row.
type Record struct {
	AssociateOID   string `json:"associate_oid"`
	Mail           string `json:"mail"`
	EmployeeNumber string `json:"employee_number"`
	Trigger        string `json:"wfm_trigger"`
}

// LoadFile reads a JSON array of records from path. A .gz suffix selects
// gzip decompression.
func LoadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open canonical file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	var records []Record
	if err := json.NewDecoder(reader).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode canonical file %s: %w", path, err)
	}
	return records, nil
}

// defaultQuery reads the roster view the warehouse maintains for this sync.
const defaultQuery = `
SELECT associate_oid,
       COALESCE(mail, ''),
       COALESCE(employee_number, ''),
       COALESCE(wfm_trigger, '')
FROM worker_sync_export`

// LoadPostgres fetches records from the warehouse. An empty query uses the
// default roster view.
func LoadPostgres(ctx context.Context, dsn, query string) ([]Record, error) {
	if query == "" {
		query = defaultQuery
	}

	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect canonical database: %w", err)
	}
	defer conn.Close(ctx)

	rows, err := conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query canonical records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.AssociateOID, &r.Mail, &r.EmployeeNumber, &r.Trigger); err != nil {
			return nil, fmt.Errorf("scan canonical record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read canonical records: %w", err)
	}
	return records, nil
}

// Index keys records by associate id for matching against the export.
func Index(records []Record) map[string]Record {
	index := make(map[string]Record, len(records))
	for _, r := range records {
		index[r.AssociateOID] = r
	}
	return index
}
