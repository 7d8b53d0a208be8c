package commands

import (
	"os"

	"aulareport/services/exporter"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rosterCmd)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Prints the course participants the export would reconcile against.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
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

		t := newTable()
		t.AppendHeader(table.Row{"Nombre Completo", "Email"})
		for _, user := range roster {
			t.AppendRow(table.Row{user.FullName, user.Email})
		}
		t.Render()
	},
}
