package feedback

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
)

// ErrNoData marks an export whose shape rules out extracting anything:
// callers treat it as "no data for this source" and keep going, unlike
// a fetch failure which gets retried.
var ErrNoData = errors.New("no usable data in feedback export")

const (
	EmailHeader = "Dirección Email"
	DateHeader  = "Fecha"
)

// Response is one submitted feedback form. Answers keep the source
// column order of every column that is not the name, email or date.
type Response struct {
	Name    string
	Email   string
	Date    string
	Answers []string
}

func cleanField(field string) string {
	return strings.TrimSpace(strings.ReplaceAll(field, `"`, ""))
}

// ParseCSV turns the raw CSV text of a feedback export into responses.
// The email and date columns are located by exact header name, never by
// position; a header missing either yields ErrNoData. Rows carrying
// more cells than the header (the export splits the date across cells
// when it contains commas) have the overflow collapsed back into the
// date field.
func ParseCSV(csvText string) ([]Response, error) {
	reader := csv.NewReader(strings.NewReader(strings.TrimSpace(csvText)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoData, err.Error())
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: export is empty", ErrNoData)
	}

	header := rows[0]
	for i, h := range header {
		header[i] = cleanField(h)
	}

	idxEmail := -1
	idxDate := -1
	for i, h := range header {
		switch h {
		case EmailHeader:
			idxEmail = i
		case DateHeader:
			idxDate = i
		}
	}
	if idxEmail == -1 {
		return nil, fmt.Errorf("%w: header %q not found", ErrNoData, EmailHeader)
	}
	if idxDate == -1 {
		return nil, fmt.Errorf("%w: header %q not found", ErrNoData, DateHeader)
	}

	var responses []Response
	for _, row := range rows[1:] {
		for i, field := range row {
			row[i] = cleanField(field)
		}

		// overflow cells belong to the date column; indices past it
		// shift right by the overflow amount
		extra := len(row) - len(header)
		if extra < 0 {
			extra = 0
		}
		shift := func(i int) int {
			if i > idxDate {
				return i + extra
			}
			return i
		}

		if shift(idxEmail) >= len(row) || idxDate+extra >= len(row) {
			// malformed row, not a malformed export
			continue
		}

		date := strings.Join(row[idxDate:idxDate+extra+1], " ")

		var answers []string
		for i := 1; i < len(header); i++ {
			if i == idxEmail || i == idxDate {
				continue
			}
			j := shift(i)
			if j < len(row) {
				answers = append(answers, row[j])
			} else {
				answers = append(answers, "")
			}
		}

		responses = append(responses, Response{
			Name:    row[0],
			Email:   row[shift(idxEmail)],
			Date:    date,
			Answers: answers,
		})
	}

	return responses, nil
}
