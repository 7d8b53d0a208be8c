package grading

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"aulareport/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoData marks a grading page without the expected submissions
// table; callers treat it as an empty result, not a failed fetch.
var ErrNoData = errors.New("no submissions table in grading page")

type State int

const (
	StateNone State = iota
	StateDraft
	StateSubmitted
)

// marker classes moodle renders inside the status cell
const (
	classDraft     = "submissionstatusdraft"
	classSubmitted = "submissionstatussubmitted"
	classGraded    = "submissiongraded"
)

// SubmissionStatus is one row of an assignment's grading table.
type SubmissionStatus struct {
	Name     string
	Email    string
	State    State
	Graded   bool
	Grade    string
	Modified string
}

// Estado renders the submission state the way it appears in the
// published sheet.
func (s SubmissionStatus) Estado() string {
	var estado string
	switch s.State {
	case StateDraft:
		estado = "Borrador"
	case StateSubmitted:
		estado = "Entregado"
	default:
		estado = "Sin entrega"
	}
	if s.Graded {
		estado += " y calificado"
	}
	return estado
}

func classifyState(cell *goquery.Selection) (State, bool) {
	// draft is checked before submitted: a draft row can carry stale
	// submitted markup after a reopened attempt
	state := StateNone
	if htmlutil.HasAnyClass(cell, classDraft) {
		state = StateDraft
	} else if htmlutil.HasAnyClass(cell, classSubmitted) {
		state = StateSubmitted
	}
	return state, htmlutil.HasAnyClass(cell, classGraded)
}

// ParseTable extracts one SubmissionStatus per body row of the grading
// table. Rows without a name or email cell are dropped silently, the
// table mixes in group-header and footer rows that carry neither.
func ParseTable(pageHtml []byte) ([]SubmissionStatus, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(pageHtml))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoData, err.Error())
	}

	table := doc.Find("table.generaltable")
	if len(table.Nodes) == 0 {
		return nil, ErrNoData
	}

	var statuses []SubmissionStatus
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		name := htmlutil.CellText(row.Find("td.c2"))
		email := htmlutil.CellText(row.Find("td.c3"))
		if name == "" || email == "" {
			return
		}

		state, graded := classifyState(row.Find("td.c4"))

		grade := htmlutil.CellText(row.Find("td.c5"))
		if strings.EqualFold(grade, "Calificación") {
			// the grade cell of an ungraded row holds the grading
			// button label instead of a value
			grade = ""
		}

		statuses = append(statuses, SubmissionStatus{
			Name:     name,
			Email:    email,
			State:    state,
			Graded:   graded,
			Grade:    grade,
			Modified: htmlutil.CellText(row.Find("td.c7")),
		})
	})

	return statuses, nil
}
