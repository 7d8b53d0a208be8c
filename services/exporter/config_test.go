package exporter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Moodle: MoodleConfig{
			BaseUrl:  "https://campus.example.mx",
			Username: "reporter",
			Password: "secret",
		},
		CourseId: 12,
		Survey:   &SurveyConfig{Id: "87", Worksheet: "Encuesta"},
		Sheet:    SheetConfig{Sink: "xlsx", File: "out.xlsx"},
	}
}

func TestValidateOk(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRequiresCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.Moodle.Password = ""
	require.Error(t, cfg.Validate())
}

func TestValidateRequiresSomeSource(t *testing.T) {
	cfg := validConfig()
	cfg.Survey = nil
	require.Error(t, cfg.Validate())
}

func TestValidateDeliverableNeedsIdAndLabel(t *testing.T) {
	cfg := validConfig()
	cfg.Deliverables = &DeliverablesConfig{
		Worksheet: "Tareas",
		Items: []DeliverableConfig{
			{Id: "441", Label: "Tarea 1"},
			{Id: "442"},
		},
	}
	err := cfg.Validate()
	require.ErrorContains(t, err, "deliverables.items[1]")
}

func TestValidateSinkSelection(t *testing.T) {
	cfg := validConfig()
	cfg.Sheet = SheetConfig{Sink: "sheets", SpreadsheetId: "abc123"}
	require.ErrorContains(t, cfg.Validate(), "credentials_file")

	cfg.Sheet.CredentialsFile = "sa.json"
	require.NoError(t, cfg.Validate())

	cfg.Sheet.Sink = "gdrive"
	require.ErrorContains(t, cfg.Validate(), "sheet.sink")
}

func TestApplyEnvOverridesCredentials(t *testing.T) {
	t.Setenv("MOODLE_USERNAME", "env-user")
	t.Setenv("MOODLE_PASSWORD", "env-pass")

	cfg := validConfig()
	cfg.ApplyEnv()
	require.Equal(t, "env-user", cfg.Moodle.Username)
	require.Equal(t, "env-pass", cfg.Moodle.Password)
}
