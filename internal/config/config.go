// Package config assembles run configuration from the environment and from
// the report list file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hcmsync/hcm-sync/internal/blob"
	"github.com/hcmsync/hcm-sync/internal/connector/hcm"
	"github.com/hcmsync/hcm-sync/internal/connector/wfm"
	"github.com/hcmsync/hcm-sync/internal/notify"
)

// HCMConfig reads the payroll platform settings.
func HCMConfig() *hcm.Config {
	return &hcm.Config{
		ServiceURL:   getEnv("HCM_SERVICE_URL", ""),
		TokenURL:     getEnv("HCM_TOKEN_URL", ""),
		ClientID:     getEnv("HCM_CLIENT_ID", ""),
		ClientSecret: getEnv("HCM_CLIENT_SECRET", ""),
		CertFile:     getEnv("HCM_CERT_FILE", ""),
		KeyFile:      getEnv("HCM_KEY_FILE", ""),
	}
}

// WFMConfig reads the time-and-attendance platform settings.
func WFMConfig() *wfm.Config {
	return &wfm.Config{
		BaseURL:      getEnv("WFM_BASE_URL", ""),
		AppKey:       getEnv("WFM_APP_KEY", ""),
		ClientID:     getEnv("WFM_CLIENT_ID", ""),
		ClientSecret: getEnv("WFM_CLIENT_SECRET", ""),
		Username:     getEnv("WFM_USERNAME", ""),
		Password:     getEnv("WFM_PASSWORD", ""),
	}
}

// BlobConfig reads the object storage settings.
func BlobConfig() *blob.Config {
	return &blob.Config{
		EndpointURL:     getEnv("BLOB_ENDPOINT_URL", ""),
		AccessKeyID:     getEnv("BLOB_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("BLOB_SECRET_ACCESS_KEY", ""),
		Bucket:          getEnv("BLOB_BUCKET", ""),
		Region:          getEnv("BLOB_REGION", ""),
		UseSSL:          getEnvBool("BLOB_USE_SSL", false),
	}
}

// NotifyConfig reads the alert delivery settings. A nil return means no SMTP
// server is configured and alerts go to the run log.
func NotifyConfig() *notify.Config {
	host := getEnv("SMTP_HOST", "")
	if host == "" {
		return nil
	}
	return &notify.Config{
		Host:     host,
		Port:     getEnvInt("SMTP_PORT", 465),
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("EMAIL_FROM", ""),
		To:       splitList(getEnv("EMAIL_TO", "")),
	}
}

// Paths holds filesystem and storage locations for run artifacts.
type Paths struct {
	// DataDir is the local artifact root.
	DataDir string

	// BlobPrefix is prepended to every uploaded object key.
	BlobPrefix string

	// ReportList is the YAML file naming the reports to extract.
	ReportList string

	// CanonicalFile is the JSON roster export. Used when CanonicalDSN is
	// empty.
	CanonicalFile string

	// CanonicalDSN selects loading the roster from the warehouse.
	CanonicalDSN   string
	CanonicalQuery string
}

// LoadPaths reads artifact locations.
func LoadPaths() Paths {
	return Paths{
		DataDir:        getEnv("DATA_DIR", "data"),
		BlobPrefix:     getEnv("BLOB_PREFIX", "hcm"),
		ReportList:     getEnv("REPORT_LIST", "reports.yaml"),
		CanonicalFile:  getEnv("CANONICAL_FILE", ""),
		CanonicalDSN:   getEnv("CANONICAL_DSN", ""),
		CanonicalQuery: getEnv("CANONICAL_QUERY", ""),
	}
}

// LoadReportList parses the configured report list.
func LoadReportList(path string) ([]wfm.ReportRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report list: %w", err)
	}

	var parsed struct {
		Reports []wfm.ReportRequest `yaml:"reports"`
	}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse report list %s: %w", path, err)
	}
	if len(parsed.Reports) == 0 {
		return nil, fmt.Errorf("report list %s names no reports", path)
	}
	return parsed.Reports, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func splitList(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
