package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"aulareport/lib/configutil"
	"aulareport/lib/restyutil"
	"aulareport/lib/scrapers/moodle/core"
	"aulareport/lib/telemetry"
	"aulareport/services/exporter"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aulareport",
	Short: "aulareport exports Moodle survey and grading data to a shared spreadsheet.",
}

var configPath *string
var verbose *bool
var dumpWire *bool

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "aulareport.json5", "Path to the exporter config file.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging.")
	dumpWire = rootCmd.PersistentFlags().Bool("dump-wire", false, "Write every request/response pair to .dev/resty for debugging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	os.Exit(1)
}

func readConfig() exporter.Config {
	configutil.LoadDotenv()
	cfg, err := configutil.ReadConfig[exporter.Config](*configPath)
	if err != nil {
		fatal("failed to read config", err)
	}
	cfg.ApplyEnv()
	err = cfg.Validate()
	if err != nil {
		fatal("invalid config", err)
	}
	return cfg
}

// bootstrap runs the shared startup sequence: logging, telemetry and
// the Moodle http client. Login is up to the caller; the returned
// cleanup flushes pending spans and must run before exit.
func bootstrap(ctx context.Context, cfg exporter.Config) (*core.Client, func()) {
	telemetry.InitSlog(*verbose)
	tel, err := telemetry.SetupFromEnv(ctx, "aulareport")
	if err != nil {
		fatal("failed to setup telemetry", err)
	}
	telemetry.InstrumentPerfStats(ctx)

	client, err := core.NewClient(ctx, core.ClientOptions{BaseUrl: cfg.Moodle.BaseUrl})
	if err != nil {
		fatal("failed to initialize moodle client", err)
	}
	if *dumpWire {
		restyutil.DumpWire(client.Http, restyutil.NewFilesystemOutput(".dev/resty"))
	}
	return client, func() {
		err := tel.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to shutdown telemetry", "err", err)
		}
	}
}
