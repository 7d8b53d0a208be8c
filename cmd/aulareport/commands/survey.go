package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"aulareport/lib/scrapers/moodle/feedback"
	"aulareport/lib/textutil"
	"aulareport/services/exporter"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(surveyCmd)
}

var surveyCmd = &cobra.Command{
	Use:   "survey",
	Short: "Prints the parsed survey responses and flags emails that almost match the roster.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		if cfg.Survey == nil {
			fatal("no survey configured", errors.New("the survey block is missing from the config"))
		}
		client, cleanup := bootstrap(cmd.Context(), cfg)
		defer cleanup()

		err := client.LoginUsernamePassword(cmd.Context(), cfg.Moodle.Username, cfg.Moodle.Password)
		if err != nil {
			fatal("failed to login to moodle", err)
		}
		roster, err := exporter.FetchRoster(cmd.Context(), client, cfg.CourseId)
		if err != nil {
			fatal("failed to fetch roster", err)
		}

		csvText, err := feedback.NewClient(client).Export(cmd.Context(), cfg.Survey.Id)
		if err != nil {
			fatal("failed to download survey export", err)
		}
		responses, err := feedback.ParseCSV(csvText)
		if err != nil {
			fatal("failed to parse survey export", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Nombre", "Email", "Fecha", "Respuestas"})
		for _, r := range responses {
			t.AppendRow(table.Row{r.Name, r.Email, r.Date, len(r.Answers)})
		}
		t.Render()

		// the join is byte-exact on purpose; point out responses that
		// would match a roster email except for case or whitespace so
		// a human can decide whether the platform data drifted
		for _, r := range responses {
			for _, user := range roster {
				if textutil.NearMatch(r.Email, user.Email) {
					slog.Warn(
						"survey email almost matches a roster email",
						"survey", fmt.Sprintf("%q", r.Email),
						"roster", fmt.Sprintf("%q", user.Email),
					)
				}
			}
		}
	},
}
