package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadReportList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.yaml")
	content := `reports:
  - name: Hours Summary
    symbolic_id: Previous_Payperiod
    hyperfind: All Home
  - name: Accruals
    symbolic_id: Previous_Payperiod
    hyperfind: All Home
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	requests, err := LoadReportList(path)
	if err != nil {
		t.Fatalf("LoadReportList: %v", err)
	}
	if len(requests) != 2 {
		t.Fatalf("requests = %d, want 2", len(requests))
	}
	if requests[0].Name != "Hours Summary" || requests[0].SymbolicID != "Previous_Payperiod" || requests[0].Hyperfind != "All Home" {
		t.Errorf("requests[0] = %+v", requests[0])
	}
}

func TestLoadReportList_EmptyListRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.yaml")
	if err := os.WriteFile(path, []byte("reports: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadReportList(path); err == nil {
		t.Error("expected error for empty report list")
	}
}

func TestNotifyConfig_NilWithoutHost(t *testing.T) {
	t.Setenv("SMTP_HOST", "")
	if cfg := NotifyConfig(); cfg != nil {
		t.Errorf("config = %+v, want nil", cfg)
	}
}

func TestNotifyConfig_SplitsRecipients(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("EMAIL_FROM", "sync@example.com")
	t.Setenv("EMAIL_TO", "ops@example.com, oncall@example.com")

	cfg := NotifyConfig()
	if cfg == nil {
		t.Fatal("expected config")
	}
	if len(cfg.To) != 2 || cfg.To[1] != "oncall@example.com" {
		t.Errorf("To = %v", cfg.To)
	}
	if cfg.Port != 465 {
		t.Errorf("Port = %d, want default 465", cfg.Port)
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("BLOB_USE_SSL", "true")
	if !BlobConfig().UseSSL {
		t.Error("UseSSL = false, want true")
	}
}
