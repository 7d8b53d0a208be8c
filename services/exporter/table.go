package exporter

import "fmt"

var surveyFixedHeader = []string{
	"Nombre Completo",
	"Grupos",
	"Fecha de Encuesta",
	"Email de Encuestados",
}

// BuildSurveyTable renders the reconciled survey rows as the rectangle
// that goes to the sheet. The question count comes from the first
// record; a survey with no responses yields an empty table, which
// callers read as "nothing to publish".
func BuildSurveyTable(rows []SurveyRow) [][]string {
	questions := 0
	for _, row := range rows {
		if row.Response != nil {
			questions = len(row.Response.Answers)
			break
		}
	}
	if questions == 0 {
		return nil
	}

	header := make([]string, 0, len(surveyFixedHeader)+questions)
	header = append(header, surveyFixedHeader...)
	for i := 1; i <= questions; i++ {
		header = append(header, fmt.Sprintf("Pregunta %d", i))
	}

	table := [][]string{header}
	for _, row := range rows {
		cells := make([]string, len(header))
		cells[0] = row.User.FullName
		if row.Response != nil {
			if len(row.Response.Answers) > 0 {
				// the first question asks for the training group
				cells[1] = row.Response.Answers[0]
			}
			cells[2] = row.Response.Date
			cells[3] = row.Response.Email
			for i := 0; i < questions && i < len(row.Response.Answers); i++ {
				cells[4+i] = row.Response.Answers[i]
			}
		}
		table = append(table, cells)
	}

	return table
}

var deliverableFixedHeader = []string{
	"Nombre Completo",
	"Email",
}

// BuildDeliverableTable renders one row per record with a three-column
// group per processed deliverable, in label order. Deliverables that
// never got processed (fetch exhausted, page unparseable) contribute no
// columns at all.
func BuildDeliverableTable(set *DeliverableSet, records []DeliverableRecord) [][]string {
	if len(set.Labels) == 0 {
		return nil
	}

	header := make([]string, 0, len(deliverableFixedHeader)+3*len(set.Labels))
	header = append(header, deliverableFixedHeader...)
	for _, label := range set.Labels {
		header = append(header,
			fmt.Sprintf("%s - Estado", label),
			fmt.Sprintf("%s - Calificación", label),
			fmt.Sprintf("%s - Última modificación", label),
		)
	}

	table := [][]string{header}
	for _, record := range records {
		cells := make([]string, 0, len(header))
		cells = append(cells, record.Name, record.Email)
		for _, label := range set.Labels {
			cell := record.ByLabel[label]
			cells = append(cells, cell.Estado, cell.Grade, cell.Modified)
		}
		table = append(table, cells)
	}

	return table
}
