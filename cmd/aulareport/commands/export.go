package commands

import (
	"log/slog"
	"strings"
	"time"

	"aulareport/services/exporter"
	"aulareport/services/exporter/sink"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(exportCmd)
}

func newSink(cmd *cobra.Command, cfg exporter.Config) (sink.Sink, error) {
	if cfg.Sheet.Sink == "xlsx" {
		return sink.NewXlsx(cfg.Sheet.File), nil
	}
	return sink.NewGoogleSheets(cmd.Context(), cfg.Sheet.CredentialsFile, cfg.Sheet.SpreadsheetId)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Runs the full export: roster, survey and grading data to the configured sheet.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		client, cleanup := bootstrap(cmd.Context(), cfg)
		defer cleanup()

		out, err := newSink(cmd, cfg)
		if err != nil {
			fatal("failed to initialize sink", err)
		}

		t1 := time.Now()
		summary, err := exporter.NewService(cfg, client, out).Run(cmd.Context())
		if err != nil {
			fatal("export failed", err)
		}

		slog.Info(
			"export finished",
			"seconds", time.Since(t1).Seconds(),
			"survey_rows", summary.SurveyRows,
			"deliverable_rows", summary.DeliverableRows,
			"skipped", strings.Join(summary.Skipped, ", "),
		)
	},
}
