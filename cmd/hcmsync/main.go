// Package main implements the hcmsync CLI: the worker export, the report
// extract and the worker update pipelines.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hcmsync/hcm-sync/internal/blob"
	"github.com/hcmsync/hcm-sync/internal/canonical"
	"github.com/hcmsync/hcm-sync/internal/config"
	"github.com/hcmsync/hcm-sync/internal/connector/hcm"
	"github.com/hcmsync/hcm-sync/internal/connector/wfm"
	"github.com/hcmsync/hcm-sync/internal/notify"
	"github.com/hcmsync/hcm-sync/internal/pipeline"
)

var rootCmd = &cobra.Command{
	Use:   "hcmsync",
	Short: "Workforce data synchronization pipelines",
	Long: `hcmsync moves workforce data between the payroll platform, the
time-and-attendance platform and object storage, and reconciles the
canonical roster against the remote worker records.`,
	SilenceUsage: true,
}

var workersExtractCmd = &cobra.Command{
	Use:   "workers-extract",
	Short: "Snapshot the worker export to object storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportFatal(cmd.Context(), "Worker Extract Error", runWorkersExtract)
	},
}

var reportsExtractCmd = &cobra.Command{
	Use:   "reports-extract",
	Short: "Run the configured reports and land their CSV artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportFatal(cmd.Context(), "WFM Extract Error", runReportsExtract)
	},
}

var workersSyncCmd = &cobra.Command{
	Use:   "workers-sync",
	Short: "Reconcile canonical records against the worker export",
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportFatal(cmd.Context(), "Worker Update Error", runWorkersSync)
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.AddCommand(workersExtractCmd, reportsExtractCmd, workersSyncCmd)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// reportFatal runs one pipeline and alerts the operator on any error that
// aborts the whole run.
func reportFatal(ctx context.Context, subject string, run func(ctx context.Context) error) error {
	err := run(ctx)
	if err == nil {
		return nil
	}

	log.Printf("fatal: %v", err)
	body := fmt.Sprintf("%v\n\n%s", err, debug.Stack())
	if nerr := buildNotifier().Notify(ctx, subject, body); nerr != nil {
		log.Printf("send alert: %v", nerr)
	}
	return err
}

func buildNotifier() notify.Notifier {
	cfg := config.NotifyConfig()
	if cfg == nil {
		return notify.Log{}
	}
	notifier, err := notify.NewEmail(cfg)
	if err != nil {
		log.Printf("notifier config: %v", err)
		return notify.Log{}
	}
	return notifier
}

func runWorkersExtract(ctx context.Context) error {
	paths := config.LoadPaths()

	h, err := hcm.New(config.HCMConfig())
	if err != nil {
		return err
	}
	if err := h.Authenticate(ctx); err != nil {
		return err
	}

	store, err := blob.NewStore(config.BlobConfig())
	if err != nil {
		return err
	}

	extract := &pipeline.WorkersExtract{
		Source:     h,
		Sink:       store,
		DataDir:    paths.DataDir,
		BlobPrefix: paths.BlobPrefix,
	}
	return extract.Run(ctx)
}

func runReportsExtract(ctx context.Context) error {
	paths := config.LoadPaths()

	requests, err := config.LoadReportList(paths.ReportList)
	if err != nil {
		return err
	}

	w, err := wfm.New(config.WFMConfig())
	if err != nil {
		return err
	}
	if err := w.Authenticate(ctx); err != nil {
		return err
	}

	store, err := blob.NewStore(config.BlobConfig())
	if err != nil {
		return err
	}

	extract := &pipeline.ReportsExtract{
		WFM:        w,
		Requests:   requests,
		Sink:       store,
		DataDir:    paths.DataDir,
		BlobPrefix: paths.BlobPrefix,
	}
	return extract.Run(ctx)
}

func runWorkersSync(ctx context.Context) error {
	paths := config.LoadPaths()

	records, err := loadCanonical(ctx, paths)
	if err != nil {
		return err
	}

	workers, err := hcm.ReadExport(pipeline.ExportPath(paths.DataDir))
	if err != nil {
		return err
	}

	h, err := hcm.New(config.HCMConfig())
	if err != nil {
		return err
	}
	if err := h.Authenticate(ctx); err != nil {
		return err
	}

	sync := &pipeline.WorkersSync{
		Poster:   h,
		Notifier: buildNotifier(),
	}
	return sync.Run(ctx, records, workers)
}

func loadCanonical(ctx context.Context, paths config.Paths) ([]canonical.Record, error) {
	if paths.CanonicalDSN != "" {
		return canonical.LoadPostgres(ctx, paths.CanonicalDSN, paths.CanonicalQuery)
	}
	if paths.CanonicalFile != "" {
		return canonical.LoadFile(paths.CanonicalFile)
	}
	return nil, fmt.Errorf("no canonical source configured: set CANONICAL_DSN or CANONICAL_FILE")
}
