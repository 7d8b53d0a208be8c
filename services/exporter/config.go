package exporter

import (
	"fmt"
	"os"
)

type MoodleConfig struct {
	BaseUrl  string `json:"base_url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type SurveyConfig struct {
	Id        string `json:"id"`
	Worksheet string `json:"worksheet"`
}

type DeliverableConfig struct {
	Id    string `json:"id"`
	Label string `json:"label"`
}

type DeliverablesConfig struct {
	Worksheet string              `json:"worksheet"`
	Items     []DeliverableConfig `json:"items"`
}

type SheetConfig struct {
	// "sheets" publishes to Google Sheets, "xlsx" to a local workbook
	Sink string `json:"sink"`
	// Google Sheets spreadsheet id, for the "sheets" sink
	SpreadsheetId string `json:"spreadsheet_id"`
	// service account credentials, for the "sheets" sink
	CredentialsFile string `json:"credentials_file"`
	// workbook path, for the "xlsx" sink
	File string `json:"file"`
}

type SmtpConfig struct {
	Server       string   `json:"server"`
	Port         int      `json:"port"`
	EmailAddress string   `json:"email_address"`
	Password     string   `json:"password"`
	To           []string `json:"to"`
}

type Config struct {
	Moodle       MoodleConfig        `json:"moodle"`
	CourseId     int64               `json:"course_id"`
	Survey       *SurveyConfig       `json:"survey"`
	Deliverables *DeliverablesConfig `json:"deliverables"`
	Sheet        SheetConfig         `json:"sheet"`
	Smtp         *SmtpConfig         `json:"smtp"`
}

// ApplyEnv lets credentials come from the environment (typically via a
// .env file) instead of sitting in the checked-in config.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("MOODLE_USERNAME"); v != "" {
		c.Moodle.Username = v
	}
	if v := os.Getenv("MOODLE_PASSWORD"); v != "" {
		c.Moodle.Password = v
	}
}

// Validate runs before any network activity; a config error here is
// fatal for the whole run.
func (c Config) Validate() error {
	if c.Moodle.BaseUrl == "" {
		return fmt.Errorf("moodle.base_url is required")
	}
	if c.Moodle.Username == "" || c.Moodle.Password == "" {
		return fmt.Errorf("moodle credentials are required (config or MOODLE_USERNAME/MOODLE_PASSWORD)")
	}
	if c.CourseId == 0 {
		return fmt.Errorf("course_id is required")
	}
	if c.Survey == nil && c.Deliverables == nil {
		return fmt.Errorf("at least one of survey or deliverables must be configured")
	}
	if c.Survey != nil {
		if c.Survey.Id == "" {
			return fmt.Errorf("survey.id is required")
		}
		if c.Survey.Worksheet == "" {
			return fmt.Errorf("survey.worksheet is required")
		}
	}
	if c.Deliverables != nil {
		if c.Deliverables.Worksheet == "" {
			return fmt.Errorf("deliverables.worksheet is required")
		}
		if len(c.Deliverables.Items) == 0 {
			return fmt.Errorf("deliverables.items must not be empty")
		}
		for i, d := range c.Deliverables.Items {
			if d.Id == "" || d.Label == "" {
				return fmt.Errorf("deliverables.items[%d] needs both an id and a label", i)
			}
		}
	}

	switch c.Sheet.Sink {
	case "sheets":
		if c.Sheet.SpreadsheetId == "" {
			return fmt.Errorf("sheet.spreadsheet_id is required for the sheets sink")
		}
		if c.Sheet.CredentialsFile == "" {
			return fmt.Errorf("sheet.credentials_file is required for the sheets sink")
		}
	case "xlsx":
		if c.Sheet.File == "" {
			return fmt.Errorf("sheet.file is required for the xlsx sink")
		}
	default:
		return fmt.Errorf("sheet.sink must be \"sheets\" or \"xlsx\", got %q", c.Sheet.Sink)
	}

	if c.Smtp != nil {
		if c.Smtp.Server == "" || c.Smtp.Port == 0 || c.Smtp.EmailAddress == "" {
			return fmt.Errorf("smtp requires server, port and email_address")
		}
		if len(c.Smtp.To) == 0 {
			return fmt.Errorf("smtp.to must not be empty")
		}
	}

	return nil
}
